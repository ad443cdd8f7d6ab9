package handlers

// StatusResponse reports the outcome of an action endpoint.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
