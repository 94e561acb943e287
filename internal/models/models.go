package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	IsActive     bool   `gorm:"default:true"             json:"is_active"`
	Role         string `gorm:"not null"                 json:"role"`
	CompanyID    *uint  `gorm:"index"                    json:"company_id"`
}

type Company struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

type Campaign struct {
	Name         string `gorm:"primaryKey" json:"name"`
	CompanyID    *uint  `gorm:"index"      json:"company_id"`
	CampaignType string `json:"campaign_type"`
	StartDate    Date   `json:"start_date"`
	EndDate      Date   `json:"end_date"`

	MetroUniverse       int     `json:"metro_universe"`
	PersonImpacts       int     `json:"person_impacts"`
	VehicleImpacts      int     `json:"vehicle_impacts"`
	CalculatedFrequency float64 `json:"calculated_frequency"`
	AverageFrequency    float64 `json:"average_frequency"`
	Reach               int     `json:"reach"`

	// Socioeconomic level shares.
	NSEAB    float64 `json:"nse_ab"`
	NSEC     float64 `json:"nse_c"`
	NSECPlus float64 `json:"nse_c_plus"`
	NSED     float64 `json:"nse_d"`
	NSEDPlus float64 `json:"nse_d_plus"`
	NSEE     float64 `json:"nse_e"`

	// Age band shares.
	Age0to14  float64 `json:"age_0_14"`
	Age15to19 float64 `json:"age_15_19"`
	Age20to24 float64 `json:"age_20_24"`
	Age25to34 float64 `json:"age_25_34"`
	Age35to44 float64 `json:"age_35_44"`
	Age45to64 float64 `json:"age_45_64"`
	Age65Plus float64 `json:"age_65_plus"`

	// Gender shares.
	Men   float64 `json:"men"`
	Women float64 `json:"women"`

	Periods []CampaignPeriod `gorm:"foreignKey:CampaignName;references:Name" json:"periods,omitempty"`
	Sites   []CampaignSite   `gorm:"foreignKey:CampaignName;references:Name" json:"sites,omitempty"`
}

type CampaignPeriod struct {
	ID             uint   `gorm:"primaryKey"     json:"id"`
	CampaignName   string `gorm:"index;not null" json:"campaign_name"`
	Period         string `json:"period"`
	PersonImpacts  int    `json:"person_impacts"`
	VehicleImpacts int    `json:"vehicle_impacts"`
}

type CampaignSite struct {
	ID                uint    `gorm:"primaryKey"     json:"id"`
	CampaignName      string  `gorm:"index;not null" json:"campaign_name"`
	SiteCode          string  `json:"site_code"`
	FurnitureType     string  `json:"furniture_type"`
	AdType            string  `json:"ad_type"`
	State             string  `json:"state"`
	Municipality      string  `json:"municipality"`
	MetroZone         string  `json:"metro_zone"`
	BiweeklyFrequency float64 `json:"biweekly_frequency"`
	MonthlyFrequency  float64 `json:"monthly_frequency"`
	BiweeklyImpacts   int     `json:"biweekly_impacts"`
	MonthlyImpacts    int     `json:"monthly_impacts"`
	MonthlyReach      float64 `json:"monthly_reach"`
}
