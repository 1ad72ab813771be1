package transfer

type SettingsUpdate struct {
	Timezone       string `json:"timezone"`
	FacebookPageID string `json:"facebook_page_id"`
}

type ClientCreation struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

type RetryRequest struct {
	UploadLogID int64 `json:"upload_log_id"`
}
