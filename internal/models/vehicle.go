package models

import "gorm.io/gorm"

type Vehicle struct {
	gorm.Model
	Marca      string  `json:"marca" gorm:"not null"`
	Modelo     string  `json:"modelo" gorm:"not null"`
	Ano        int     `json:"ano" gorm:"not null"`
	Preco      float64 `json:"preco" gorm:"not null"`
	IsReserved bool    `json:"is_reserved" gorm:"not null;default:false"`
	PhotoURL   string  `json:"photo_url" gorm:"size:255"`
}
