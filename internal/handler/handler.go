package handler

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}
