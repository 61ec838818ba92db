package models

// Response tüm endpoint'lerin ortak cevap zarfı. Başarıda data ve
// opsiyonel message dolu, hatada yalnızca error. Upload pipeline'ının iç
// hata detayları buraya asla yazılmaz; handler'lar jenerik metin koyar.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}
