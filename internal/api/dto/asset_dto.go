package dto

import "time"

// AssetRequest payload for create and update.
type AssetRequest struct {
	KodeSatker   string `json:"kode_satker"`
	NamaSatker   string `json:"nama_satker"`
	KodeBarang   string `json:"kode_barang"`
	NamaBarang   string `json:"nama_barang"`
	NUP          string `json:"nup"`
	Kondisi      string `json:"kondisi"`
	Merek        string `json:"merek"`
	Ruangan      string `json:"ruangan"`
	SerialNumber string `json:"serial_number"`
	Pengguna     string `json:"pengguna"`
}

// AssetResponse response.
type AssetResponse struct {
	ID           int64     `json:"id"`
	KodeSatker   string    `json:"kode_satker"`
	NamaSatker   string    `json:"nama_satker"`
	KodeBarang   string    `json:"kode_barang"`
	NamaBarang   string    `json:"nama_barang"`
	NUP          string    `json:"nup"`
	Kondisi      string    `json:"kondisi"`
	Merek        string    `json:"merek"`
	Ruangan      string    `json:"ruangan"`
	SerialNumber string    `json:"serial_number"`
	Pengguna     string    `json:"pengguna"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssetListResponse wraps a page plus the total match count.
type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
	Total int             `json:"total"`
}
