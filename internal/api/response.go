package api

// ErrorResponse API错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse API成功响应
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Items interface{} `json:"items"`
}
