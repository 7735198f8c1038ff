package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
	"go.uber.org/zap"
)

type WeekPlanRepository interface {
	ListByHouseholdAndWeek(householdID uint, weekKey string) ([]models.WeekPlan, error)
	ListByHousehold(householdID uint, includeArchived bool) ([]models.WeekPlan, error)
	CreateIfAbsent(plan *models.WeekPlan) (bool, error)
	UpdateStatus(planID uint, status string) error
	Delete(planID uint) error
}

// PlanSlotRepository is the part of slot storage needed to fold duplicate
// plans into one.
type PlanSlotRepository interface {
	MoveToPlan(slotID uint, planID uint, position int) error
	Delete(slotID uint) error
}

type WeekPlanService struct {
	plans         WeekPlanRepository
	slots         PlanSlotRepository
	defaultStatus string
	logger        *zap.Logger
}

func NewWeekPlanService(plans WeekPlanRepository, slots PlanSlotRepository, defaultStatus string, logger *zap.Logger) *WeekPlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultStatus != models.PlanStatusActive {
		defaultStatus = models.PlanStatusDraft
	}
	return &WeekPlanService{
		plans:         plans,
		slots:         slots,
		defaultStatus: defaultStatus,
		logger:        logger,
	}
}

// FindOrCreatePlan returns the household's plan for the week containing
// referenceDate, creating an empty one with the requested status when the
// week has never been planned. An empty status means the service default.
func (service *WeekPlanService) FindOrCreatePlan(householdID uint, referenceDate time.Time, location *time.Location, status string) (models.WeekPlan, error) {
	if status == "" {
		status = service.defaultStatus
	}
	if status != models.PlanStatusDraft && status != models.PlanStatusActive {
		return models.WeekPlan{}, ErrInvalidPlanStatus
	}

	weekStart := NormalizeToWeekStart(referenceDate, location)
	weekKey := weekStart.Format(WeekKeyLayout)

	plan, found, err := service.loadByKey(householdID, weekKey)
	if err != nil {
		return models.WeekPlan{}, err
	}
	if found {
		return plan, nil
	}

	candidate := models.WeekPlan{
		HouseholdID:   householdID,
		WeekStartKey:  weekKey,
		WeekStartDate: weekStart,
		Status:        status,
	}
	created, err := service.plans.CreateIfAbsent(&candidate)
	if err != nil {
		service.logger.Error("create week plan",
			zap.String("operation", "find_or_create_plan"),
			zap.Uint("household_id", householdID),
			zap.String("week_key", weekKey),
			zap.Error(err),
		)
		return models.WeekPlan{}, fmt.Errorf("%w: %v", ErrPlanSaveFailed, err)
	}
	if !created {
		service.logger.Debug("week plan created concurrently",
			zap.Uint("household_id", householdID),
			zap.String("week_key", weekKey),
		)
	}

	plan, found, err = service.loadByKey(householdID, weekKey)
	if err != nil {
		return models.WeekPlan{}, err
	}
	if !found {
		return models.WeekPlan{}, fmt.Errorf("%w: plan %s missing after create", ErrPlanSaveFailed, weekKey)
	}
	return plan, nil
}

// LoadPlan reads a week without creating it. found is false for a week that
// has no plan; a failed read is reported as ErrStoreUnavailable instead.
func (service *WeekPlanService) LoadPlan(householdID uint, referenceDate time.Time, location *time.Location) (models.WeekPlan, bool, error) {
	return service.loadByKey(householdID, WeekKey(referenceDate, location))
}

func (service *WeekPlanService) ListPlans(householdID uint, includeArchived bool) ([]models.WeekPlan, error) {
	plans, err := service.plans.ListByHousehold(householdID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return plans, nil
}

// SetPlanStatus applies status to plan before saving; a failed save leaves the
// new status on the caller's copy.
func (service *WeekPlanService) SetPlanStatus(plan *models.WeekPlan, status string) error {
	if !models.ValidPlanStatus(status) {
		return ErrInvalidPlanStatus
	}
	if plan.Status == status {
		return nil
	}

	plan.Status = status
	if err := service.plans.UpdateStatus(plan.ID, status); err != nil {
		service.logger.Error("update week plan status",
			zap.String("operation", "set_plan_status"),
			zap.Uint("household_id", plan.HouseholdID),
			zap.Uint("plan_id", plan.ID),
			zap.String("status", status),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPlanSaveFailed, err)
	}
	return nil
}

func (service *WeekPlanService) ArchivePlan(plan *models.WeekPlan) error {
	return service.SetPlanStatus(plan, models.PlanStatusArchived)
}

// DeletePlan is for reseeding and tests. Normal use archives instead.
func (service *WeekPlanService) DeletePlan(plan models.WeekPlan) error {
	if err := service.plans.Delete(plan.ID); err != nil {
		service.logger.Error("delete week plan",
			zap.String("operation", "delete_plan"),
			zap.Uint("household_id", plan.HouseholdID),
			zap.Uint("plan_id", plan.ID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPlanSaveFailed, err)
	}
	return nil
}

func (service *WeekPlanService) loadByKey(householdID uint, weekKey string) (models.WeekPlan, bool, error) {
	plans, err := service.plans.ListByHouseholdAndWeek(householdID, weekKey)
	if err != nil {
		service.logger.Warn("load week plan",
			zap.Uint("household_id", householdID),
			zap.String("week_key", weekKey),
			zap.Error(err),
		)
		return models.WeekPlan{}, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	switch len(plans) {
	case 0:
		return models.WeekPlan{}, false, nil
	case 1:
		return plans[0], true, nil
	default:
		return service.mergeDuplicatePlans(plans), true, nil
	}
}

// mergeDuplicatePlans keeps the oldest plan and moves every other plan's
// slots into it. A slot whose client id already exists in the kept plan is a
// copy of the same meal and is dropped. Failures are logged and the merge is
// retried on the next load.
func (service *WeekPlanService) mergeDuplicatePlans(plans []models.WeekPlan) models.WeekPlan {
	keeper := plans[0]
	service.logger.Warn("duplicate week plans detected",
		zap.Uint("household_id", keeper.HouseholdID),
		zap.String("week_key", keeper.WeekStartKey),
		zap.Uint("kept_plan_id", keeper.ID),
		zap.Int("duplicates", len(plans)-1),
	)

	clientIDs := make(map[string]struct{}, len(keeper.Slots))
	nextPosition := 0
	for _, slot := range keeper.Slots {
		clientIDs[slot.ClientID] = struct{}{}
		if slot.Position >= nextPosition {
			nextPosition = slot.Position + 1
		}
	}

	for _, extra := range plans[1:] {
		mergedAll := true
		for _, slot := range extra.Slots {
			if _, taken := clientIDs[slot.ClientID]; taken {
				if err := service.slots.Delete(slot.ID); err != nil {
					mergedAll = false
					service.logMergeFailure(keeper, extra, slot.ID, err)
				}
				continue
			}
			if err := service.slots.MoveToPlan(slot.ID, keeper.ID, nextPosition); err != nil {
				mergedAll = false
				service.logMergeFailure(keeper, extra, slot.ID, err)
				continue
			}
			slot.PlanID = keeper.ID
			slot.Position = nextPosition
			nextPosition++
			clientIDs[slot.ClientID] = struct{}{}
			keeper.Slots = append(keeper.Slots, slot)
		}
		if !mergedAll {
			continue
		}
		if err := service.plans.Delete(extra.ID); err != nil {
			service.logMergeFailure(keeper, extra, 0, err)
		}
	}
	return keeper
}

func (service *WeekPlanService) logMergeFailure(keeper models.WeekPlan, extra models.WeekPlan, slotID uint, err error) {
	service.logger.Error("merge duplicate week plan",
		zap.String("operation", "merge_duplicate_plans"),
		zap.Uint("household_id", keeper.HouseholdID),
		zap.Uint("plan_id", keeper.ID),
		zap.Uint("duplicate_plan_id", extra.ID),
		zap.Uint("slot_id", slotID),
		zap.Error(err),
	)
}
