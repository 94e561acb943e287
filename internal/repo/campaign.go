package repo

import (
	"time"

	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/models"
)

// CampaignFilter narrows a tenant-scoped listing. Start/End apply only
// when both are set and select campaigns whose window overlaps the query
// window.
type CampaignFilter struct {
	CampaignType string
	Start        *time.Time
	End          *time.Time
}

type CampaignRepo struct{ DB *gorm.DB }

func NewCampaignRepo(db *gorm.DB) *CampaignRepo { return &CampaignRepo{DB: db} }

func (r *CampaignRepo) filtered(companyID uint, f CampaignFilter) *gorm.DB {
	q := r.DB.Model(&models.Campaign{}).Where("company_id = ?", companyID)
	if f.CampaignType != "" {
		q = q.Where("campaign_type = ?", f.CampaignType)
	}
	if f.Start != nil && f.End != nil {
		q = q.Where("start_date <= ? AND end_date >= ?", *f.End, *f.Start)
	}
	return q
}

func (r *CampaignRepo) ListForCompany(companyID uint, f CampaignFilter, skip, limit int) ([]models.Campaign, error) {
	var items []models.Campaign
	err := r.filtered(companyID, f).
		Order("name ASC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *CampaignRepo) CountForCompany(companyID uint, f CampaignFilter) (int64, error) {
	var total int64
	err := r.filtered(companyID, f).Count(&total).Error
	return total, err
}

func (r *CampaignRepo) ForCompany(name string, companyID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.DB.Where("name = ? AND company_id = ?", name, companyID).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepo) DetailForCompany(name string, companyID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.DB.Preload("Periods").Preload("Sites").
		Where("name = ? AND company_id = ?", name, companyID).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepo) Exists(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Campaign{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *CampaignRepo) Create(campaign *models.Campaign) error {
	return r.DB.Create(campaign).Error
}

func (r *CampaignRepo) Save(campaign *models.Campaign) error {
	return r.DB.Save(campaign).Error
}

// Delete removes a campaign and its breakdown rows in one transaction.
func (r *CampaignRepo) Delete(name string, companyID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("name = ? AND company_id = ?", name, companyID).Delete(&models.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("campaign_name = ?", name).Delete(&models.CampaignPeriod{}).Error; err != nil {
			return err
		}
		return tx.Where("campaign_name = ?", name).Delete(&models.CampaignSite{}).Error
	})
}

func (r *CampaignRepo) SearchByDate(companyID uint, start, end time.Time) ([]models.Campaign, error) {
	var items []models.Campaign
	err := r.DB.
		Where("company_id = ?", companyID).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *CampaignRepo) AddPeriod(period *models.CampaignPeriod) error {
	return r.DB.Create(period).Error
}

func (r *CampaignRepo) AddSite(site *models.CampaignSite) error {
	return r.DB.Create(site).Error
}
