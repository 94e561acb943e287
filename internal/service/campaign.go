package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/logging"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/repo"
)

// CampaignService is the tenant-scoped campaign catalog. Every operation
// is filtered by the caller's company; a caller without one sees an empty
// world, and cross-tenant lookups come back ErrNotFound.
type CampaignService struct {
	Campaigns *repo.CampaignRepo
}

func NewCampaignService(campaigns *repo.CampaignRepo) *CampaignService {
	return &CampaignService{Campaigns: campaigns}
}

// ListQuery is a paginated, optionally filtered listing request.
type ListQuery struct {
	Skip         int
	Limit        int
	CampaignType string
	Start        *time.Time
	End          *time.Time
}

// CampaignPatch enumerates the updatable fields of a campaign. Nil means
// "leave alone". The name and owning company are not patchable.
type CampaignPatch struct {
	CampaignType *string      `json:"campaign_type"`
	StartDate    *models.Date `json:"start_date"`
	EndDate      *models.Date `json:"end_date"`

	MetroUniverse       *int     `json:"metro_universe"`
	PersonImpacts       *int     `json:"person_impacts"`
	VehicleImpacts      *int     `json:"vehicle_impacts"`
	CalculatedFrequency *float64 `json:"calculated_frequency"`
	AverageFrequency    *float64 `json:"average_frequency"`
	Reach               *int     `json:"reach"`

	NSEAB    *float64 `json:"nse_ab"`
	NSEC     *float64 `json:"nse_c"`
	NSECPlus *float64 `json:"nse_c_plus"`
	NSED     *float64 `json:"nse_d"`
	NSEDPlus *float64 `json:"nse_d_plus"`
	NSEE     *float64 `json:"nse_e"`

	Age0to14  *float64 `json:"age_0_14"`
	Age15to19 *float64 `json:"age_15_19"`
	Age20to24 *float64 `json:"age_20_24"`
	Age25to34 *float64 `json:"age_25_34"`
	Age35to44 *float64 `json:"age_35_44"`
	Age45to64 *float64 `json:"age_45_64"`
	Age65Plus *float64 `json:"age_65_plus"`

	Men   *float64 `json:"men"`
	Women *float64 `json:"women"`
}

// List returns one page plus the total match count. A nil company yields
// an empty page with total zero.
func (s *CampaignService) List(ctx context.Context, companyID *uint, q ListQuery) ([]models.Campaign, int64, error) {
	if companyID == nil {
		return []models.Campaign{}, 0, nil
	}
	f := repo.CampaignFilter{CampaignType: q.CampaignType, Start: q.Start, End: q.End}
	items, err := s.Campaigns.ListForCompany(*companyID, f, q.Skip, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Campaigns.CountForCompany(*companyID, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns a campaign with its period and site breakdowns.
func (s *CampaignService) Get(ctx context.Context, companyID *uint, name string) (*models.Campaign, error) {
	if companyID == nil {
		return nil, ErrNotFound
	}
	campaign, err := s.Campaigns.DetailForCompany(name, *companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Create(ctx context.Context, companyID uint, campaign *models.Campaign) error {
	l := logging.FromContext(ctx).With("svc", "campaign.create", "campaign", campaign.Name, "company_id", companyID)
	exists, err := s.Campaigns.Exists(campaign.Name)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateCampaign
	}
	campaign.CompanyID = &companyID
	if err := s.Campaigns.Create(campaign); err != nil {
		return err
	}
	l.Info("campaign_created")
	return nil
}

func (s *CampaignService) Update(ctx context.Context, companyID uint, name string, patch CampaignPatch) (*models.Campaign, error) {
	l := logging.FromContext(ctx).With("svc", "campaign.update", "campaign", name, "company_id", companyID)
	campaign, err := s.Campaigns.ForCompany(name, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	applyPatch(campaign, patch)
	if err := s.Campaigns.Save(campaign); err != nil {
		return nil, err
	}
	l.Info("campaign_updated")
	return campaign, nil
}

func (s *CampaignService) Delete(ctx context.Context, companyID uint, name string) error {
	l := logging.FromContext(ctx).With("svc", "campaign.delete", "campaign", name, "company_id", companyID)
	if err := s.Campaigns.Delete(name, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	l.Info("campaign_deleted")
	return nil
}

// SearchByDate lists campaigns whose window overlaps [start, end]. Window
// ordering is validated at the boundary before this is called.
func (s *CampaignService) SearchByDate(ctx context.Context, companyID *uint, start, end time.Time) ([]models.Campaign, error) {
	if companyID == nil {
		return []models.Campaign{}, nil
	}
	return s.Campaigns.SearchByDate(*companyID, start, end)
}

// AddPeriod attaches a per-period breakdown row to an owned campaign.
func (s *CampaignService) AddPeriod(ctx context.Context, companyID uint, name string, period *models.CampaignPeriod) error {
	if _, err := s.Campaigns.ForCompany(name, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	period.CampaignName = name
	return s.Campaigns.AddPeriod(period)
}

// AddSite attaches a per-site breakdown row to an owned campaign.
func (s *CampaignService) AddSite(ctx context.Context, companyID uint, name string, site *models.CampaignSite) error {
	if _, err := s.Campaigns.ForCompany(name, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	site.CampaignName = name
	return s.Campaigns.AddSite(site)
}

func applyPatch(c *models.Campaign, p CampaignPatch) {
	if p.CampaignType != nil {
		c.CampaignType = *p.CampaignType
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
	if p.MetroUniverse != nil {
		c.MetroUniverse = *p.MetroUniverse
	}
	if p.PersonImpacts != nil {
		c.PersonImpacts = *p.PersonImpacts
	}
	if p.VehicleImpacts != nil {
		c.VehicleImpacts = *p.VehicleImpacts
	}
	if p.CalculatedFrequency != nil {
		c.CalculatedFrequency = *p.CalculatedFrequency
	}
	if p.AverageFrequency != nil {
		c.AverageFrequency = *p.AverageFrequency
	}
	if p.Reach != nil {
		c.Reach = *p.Reach
	}
	if p.NSEAB != nil {
		c.NSEAB = *p.NSEAB
	}
	if p.NSEC != nil {
		c.NSEC = *p.NSEC
	}
	if p.NSECPlus != nil {
		c.NSECPlus = *p.NSECPlus
	}
	if p.NSED != nil {
		c.NSED = *p.NSED
	}
	if p.NSEDPlus != nil {
		c.NSEDPlus = *p.NSEDPlus
	}
	if p.NSEE != nil {
		c.NSEE = *p.NSEE
	}
	if p.Age0to14 != nil {
		c.Age0to14 = *p.Age0to14
	}
	if p.Age15to19 != nil {
		c.Age15to19 = *p.Age15to19
	}
	if p.Age20to24 != nil {
		c.Age20to24 = *p.Age20to24
	}
	if p.Age25to34 != nil {
		c.Age25to34 = *p.Age25to34
	}
	if p.Age35to44 != nil {
		c.Age35to44 = *p.Age35to44
	}
	if p.Age45to64 != nil {
		c.Age45to64 = *p.Age45to64
	}
	if p.Age65Plus != nil {
		c.Age65Plus = *p.Age65Plus
	}
	if p.Men != nil {
		c.Men = *p.Men
	}
	if p.Women != nil {
		c.Women = *p.Women
	}
}
