package model

import "github.com/google/uuid"

type LoginRequest struct {
	RUT      string    `json:"rut" binding:"required,rut"`
	Password string    `json:"password" binding:"required"`
	CenterID uuid.UUID `json:"center_id" binding:"required"`
}

type LoginResponse struct {
	Token   string       `json:"token"`
	Worker  *Worker      `json:"worker"`
	Center  *Center      `json:"center"`
	Session *WorkSession `json:"session"`
}
