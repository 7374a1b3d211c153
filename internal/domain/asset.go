package domain

import "time"

// AssetBMN is one fixed-asset (Barang Milik Negara) inventory record.
// Identified operationally by the kode barang + NUP pair within a satker.
type AssetBMN struct {
	ID           int64
	KodeSatker   string
	NamaSatker   string
	KodeBarang   string
	NamaBarang   string
	NUP          string
	Kondisi      string
	Merek        string
	Ruangan      string
	SerialNumber string
	Pengguna     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
