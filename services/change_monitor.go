package services

import (
	"context"
	"errors"
	"time"

	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChangeSink receives every order change read from the outbox.
type ChangeSink interface {
	Apply(ev kitchen.ChangeEvent)
}

// ChangeSinkFunc adapts a plain function.
type ChangeSinkFunc func(ev kitchen.ChangeEvent)

func (f ChangeSinkFunc) Apply(ev kitchen.ChangeEvent) { f(ev) }

// OrderPublisher is the broker side of the feed (mq.Publisher).
type OrderPublisher interface {
	PublishOrderChange(ctx context.Context, ev kitchen.ChangeEvent) error
}

// ChangeMonitor polls db_changes and fans every unprocessed row out to the
// kitchen engines, the websocket hub and the broker.
type ChangeMonitor struct {
	DB        *gorm.DB
	Sinks     []ChangeSink
	Publisher OrderPublisher
	StopChan  chan struct{}
	Interval  time.Duration
	BatchSize int
}

func NewChangeMonitor(db *gorm.DB, sinks ...ChangeSink) *ChangeMonitor {
	return &ChangeMonitor{
		DB:        db,
		Sinks:     sinks,
		StopChan:  make(chan struct{}),
		Interval:  1 * time.Second,
		BatchSize: 100,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.ProcessPending(context.Background()); err != nil {
					utils.ErrorLogger.WithError(err).Error("change monitor")
				}
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// ProcessPending handles one batch and returns how many rows it consumed.
func (cm *ChangeMonitor) ProcessPending(ctx context.Context) (int, error) {
	var changes []models.DBChange
	if err := cm.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(cm.BatchSize).
		Find(&changes).Error; err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.ID)
		if change.Entity != EntityOrders {
			continue
		}
		ev, ok := cm.orderEvent(ctx, change)
		if !ok {
			continue
		}
		cm.emit(ctx, ev)
	}

	if err := cm.DB.WithContext(ctx).Model(&models.DBChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error; err != nil {
		return 0, err
	}
	utils.InfoLogger.WithField("count", len(changes)).Debug("processed order changes")
	return len(changes), nil
}

func (cm *ChangeMonitor) orderEvent(ctx context.Context, change models.DBChange) (kitchen.ChangeEvent, bool) {
	if change.ActionType == ActionDelete {
		return kitchen.DeleteEvent(change.TenantSlug, change.RecordID, change.ChangedAt), true
	}
	rec, err := findOrder(cm.DB.WithContext(ctx), change.TenantSlug, change.RecordID)
	if errors.Is(err, kitchen.ErrOrderNotFound) {
		// deleted since; its DELETE row follows
		return kitchen.ChangeEvent{}, false
	}
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("order_id", change.RecordID).Error("load changed order")
		return kitchen.ChangeEvent{}, false
	}
	o := rec.ToDomain()
	if change.ActionType == ActionInsert {
		return kitchen.InsertEvent(o), true
	}
	return kitchen.UpdateEvent(o), true
}

func (cm *ChangeMonitor) emit(ctx context.Context, ev kitchen.ChangeEvent) {
	for _, s := range cm.Sinks {
		s.Apply(ev)
	}
	if cm.Publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cm.Publisher.PublishOrderChange(pctx, ev); err != nil {
		utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
			"tenant":   ev.TenantSlug,
			"order_id": ev.OrderID,
		}).Error("publish order change")
	}
}
