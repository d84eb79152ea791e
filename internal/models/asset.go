package models

import (
	"time"
)

// Asset categories
const (
	AssetCategoryComputer = "computadora"
	AssetCategoryPrinter  = "impresora"
	AssetCategoryNetwork  = "red"
)

// Asset conditions
const (
	AssetConditionNew  = "nuevo"
	AssetConditionGood = "bueno"
	AssetConditionFair = "regular"
	AssetConditionPoor = "malo"
)

// AssetCategories lists the categories accepted by the inventory filters.
var AssetCategories = []string{AssetCategoryComputer, AssetCategoryPrinter, AssetCategoryNetwork}

// AssetConditions lists the conditions accepted by the inventory filters.
var AssetConditions = []string{AssetConditionNew, AssetConditionGood, AssetConditionFair, AssetConditionPoor}

// Asset is one tracked piece of equipment.
type Asset struct {
	ID           int64     `json:"id" db:"id"`
	Tag          string    `json:"tag" db:"tag"`
	Serial       string    `json:"serial" db:"serial"`
	Category     string    `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	SiteID       *int64    `json:"site_id" db:"site_id"`
	Condition    string    `json:"condition" db:"condition"`
	CustodianID  *int64    `json:"custodian_id" db:"custodian_id"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}
