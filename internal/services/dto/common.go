package dto

// MessageResponse - простой ответ-подтверждение
type MessageResponse struct {
	Message string `json:"message"`
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
