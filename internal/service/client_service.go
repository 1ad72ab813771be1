package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
)

type ClientService interface {
	Create(ctx context.Context, userID int64, name, company string) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Client, error)
	ClientInfo(ctx context.Context, userID, clientID int64) (*models.Client, error)
	Remove(ctx context.Context, userID, clientID int64) error
}

type clientService struct {
	cl repository.ClientRepository
}

func NewClientService(cl repository.ClientRepository) ClientService {
	return &clientService{
		cl: cl,
	}
}

func (s *clientService) Create(ctx context.Context, userID int64, name, company string) (int64, error) {
	if name == "" {
		err := errors.New("client name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	client := models.Client{
		UserID:  userID,
		Name:    name,
		Company: company,
	}

	clientID, err := s.cl.Create(ctx, &client)
	if err != nil {
		return 0, fmt.Errorf("Error creating client")
	}

	return clientID, nil
}

func (s *clientService) List(ctx context.Context, userID int64) ([]*models.Client, error) {
	clients, err := s.cl.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting clients")
	}
	return clients, nil
}

func (s *clientService) ClientInfo(ctx context.Context, userID, clientID int64) (*models.Client, error) {
	isValid, err := s.cl.CheckByUserID(ctx, clientID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("Client doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	client, err := s.cl.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("Error getting client info")
	}

	return client, nil
}

func (s *clientService) Remove(ctx context.Context, userID, clientID int64) error {
	isValid, err := s.cl.CheckByUserID(ctx, clientID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Client doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.cl.Remove(ctx, clientID)
	if err != nil {
		return fmt.Errorf("Error removing client")
	}

	return nil
}
