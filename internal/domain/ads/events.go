package ads

import (
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/user"
)

type AdPublished struct {
	AdID    AdID
	OwnerID user.ID
	At      time.Time
}

func (e AdPublished) EventName() string     { return "ad.published" }
func (e AdPublished) AggregateID() string   { return string(e.AdID) }
func (e AdPublished) OccurredAt() time.Time { return e.At }

type AdUpdated struct {
	AdID AdID
	At   time.Time
}

func (e AdUpdated) EventName() string     { return "ad.updated" }
func (e AdUpdated) AggregateID() string   { return string(e.AdID) }
func (e AdUpdated) OccurredAt() time.Time { return e.At }

type AdDeactivated struct {
	AdID AdID
	At   time.Time
}

func (e AdDeactivated) EventName() string     { return "ad.deactivated" }
func (e AdDeactivated) AggregateID() string   { return string(e.AdID) }
func (e AdDeactivated) OccurredAt() time.Time { return e.At }

type AdActivated struct {
	AdID AdID
	At   time.Time
}

func (e AdActivated) EventName() string     { return "ad.activated" }
func (e AdActivated) AggregateID() string   { return string(e.AdID) }
func (e AdActivated) OccurredAt() time.Time { return e.At }
