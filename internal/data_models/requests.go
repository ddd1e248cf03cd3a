package dto

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type CreateTaskRequest struct {
	OrderID   string `json:"order_id"`
	Kind      string `json:"kind"`
	CourierID string `json:"courier_id,omitempty"`
	Address   string `json:"address"`
	Deadline  string `json:"deadline,omitempty"`
}
