package barracks

import (
	"math"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/equipment"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
)

const (
	// MaxLevel is the highest barracks level.
	MaxLevel = 5
	// MinBatch and MaxBatch bound a batch's quantity.
	MinBatch = 1
	MaxBatch = 50
)

// upgradeCosts[l] is the copper cost of going from level l to l+1.
var upgradeCosts = map[int]int64{
	1: 50 * catalog.Silver,
	2: 1*catalog.Gold + 50*catalog.Silver,
	3: 4 * catalog.Gold,
	4: 8 * catalog.Gold,
}

// Slots returns the batch queue capacity at level.
func Slots(level int) int {
	return min(2+(level-1), 5)
}

// DurationDays returns how many days a batch enqueued at level takes.
func DurationDays(level int) int {
	return max(7-(level-1), 3)
}

// UpgradeCost returns the copper cost of upgrading from level.
//
// Postcondition: returns ErrMaxLevel when level >= MaxLevel.
func UpgradeCost(level int) (int64, error) {
	cost, ok := upgradeCosts[level]
	if !ok {
		return 0, gameerr.Rejectf(gameerr.ErrMaxLevel, "barracks is level %d of %d", level, MaxLevel)
	}
	return cost, nil
}

// Batch is an in-flight training or conversion. Only DaysRemaining changes
// after enqueue.
type Batch struct {
	ID     string              `json:"id"`
	Kind   Kind                `json:"kind"`
	Target catalog.SoldierType `json:"target"`
	// Source is empty for LIGHT_TRAIN.
	Source catalog.SoldierType `json:"source,omitempty"`
	// TakeByRank records the soldiers a conversion consumed, by rank.
	TakeByRank    map[catalog.Rank]Cohort `json:"takeByRank,omitempty"`
	Quantity      int                     `json:"quantity"`
	DaysRemaining int                     `json:"daysRemaining"`
}

// Barracks is the soldier pool, recruit counter and batch queue.
type Barracks struct {
	Level    int     `json:"level"`
	Recruits Cohort  `json:"recruits"`
	Pool     Pool    `json:"pool"`
	Queue    []Batch `json:"queue"`
}

// New returns a level 1 barracks with nothing in it.
func New() Barracks {
	return Barracks{Level: 1, Pool: make(Pool)}
}

// Clone returns a deep copy.
func (b Barracks) Clone() Barracks {
	out := b
	out.Pool = b.Pool.Clone()
	if b.Queue == nil {
		return out
	}
	out.Queue = make([]Batch, len(b.Queue))
	for i, bt := range b.Queue {
		out.Queue[i] = bt
		if bt.TakeByRank != nil {
			m := make(map[catalog.Rank]Cohort, len(bt.TakeByRank))
			for r, c := range bt.TakeByRank {
				m[r] = c
			}
			out.Queue[i].TakeByRank = m
		}
	}
	return out
}

// FreeSlots returns how many more batches can be queued.
func (b Barracks) FreeSlots() int {
	return max(Slots(b.Level)-len(b.Queue), 0)
}

// Request describes a batch to enqueue. Target is used by LIGHT_TRAIN and
// Source by the conversions.
type Request struct {
	Kind     Kind
	Target   catalog.SoldierType
	Source   catalog.SoldierType
	Quantity int
}

// Enqueue validates req and, if every check passes, reserves its recruits or
// source soldiers and its equipment and appends a new batch with id.
// Checks run in order: queue capacity, quantity range, conversion edge,
// soldier supply, equipment.
//
// Postcondition: on error b and inv are returned unchanged; on success the
// returned values are fresh copies.
func Enqueue(reg *catalog.Registry, b Barracks, inv equipment.Inventory, req Request, id string) (Barracks, equipment.Inventory, Batch, error) {
	if len(b.Queue) >= Slots(b.Level) {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrQueueFull, "%d/%d batch slots in use", len(b.Queue), Slots(b.Level))
	}
	if req.Quantity < MinBatch || req.Quantity > MaxBatch {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrBatchSizeOutOfRange, "quantity %d is outside %d-%d", req.Quantity, MinBatch, MaxBatch)
	}
	if req.Kind == LightTrain {
		return enqueueLightTrain(reg, b, inv, req, id)
	}
	return enqueueConversion(b, inv, req, id)
}

func enqueueLightTrain(reg *catalog.Registry, b Barracks, inv equipment.Inventory, req Request, id string) (Barracks, equipment.Inventory, Batch, error) {
	if !IsLightTrainTarget(req.Target) {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrInvalidConversionSource, "recruits cannot train into %s", req.Target)
	}
	if b.Recruits.Count < req.Quantity {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrInsufficientStock, "need %d recruits, have %d", req.Quantity, b.Recruits.Count)
	}
	settled := equipment.Settle(reg, inv, 0, equipment.DemandFor(reg, req.Target, req.Quantity), false)
	if !settled.OK {
		return b, inv, Batch{}, settled.Err()
	}

	next := b.Clone()
	next.Recruits.Count -= req.Quantity
	if next.Recruits.Count == 0 {
		next.Recruits.AvgXP = 0
	}
	batch := Batch{
		ID:            id,
		Kind:          LightTrain,
		Target:        req.Target,
		Quantity:      req.Quantity,
		DaysRemaining: DurationDays(b.Level),
	}
	next.Queue = append(next.Queue, batch)
	return next, settled.Inventory, batch, nil
}

func enqueueConversion(b Barracks, inv equipment.Inventory, req Request, id string) (Barracks, equipment.Inventory, Batch, error) {
	conv, ok := ConversionFor(req.Kind)
	if !ok {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrInvalidArgument, "unknown batch kind %q", req.Kind)
	}
	if !conv.Allows(req.Source) {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrInvalidConversionSource,
			"%s converts from %v, not %s", conv.Target, conv.Sources(), req.Source)
	}
	plan, err := b.Pool.Plan(req.Source, conv.Ranks(), req.Quantity)
	if err != nil {
		return b, inv, Batch{}, err
	}
	cost := conv.CostPerSoldier(req.Source).Scale(req.Quantity)
	if short := equipment.Diff(inv, cost); short.Any {
		return b, inv, Batch{}, gameerr.Rejectf(gameerr.ErrInsufficientEquipment,
			"converting %d %s to %s needs %s more", req.Quantity, req.Source, conv.Target, short.Missing)
	}

	pool, taken, err := b.Pool.Withdraw(req.Source, plan)
	if err != nil {
		return b, inv, Batch{}, err
	}
	next := b.Clone()
	next.Pool = pool
	nextInv := inv.Clone()
	nextInv.Take(cost)

	batch := Batch{
		ID:            id,
		Kind:          req.Kind,
		Target:        conv.Target,
		Source:        req.Source,
		TakeByRank:    taken,
		Quantity:      req.Quantity,
		DaysRemaining: DurationDays(b.Level),
	}
	next.Queue = append(next.Queue, batch)
	return next, nextInv, batch, nil
}

// Tick counts every batch down by one day and lands the finished ones in the
// target pool. Batches resolve independently.
//
// Postcondition: completed holds the finished batches in queue order; b is not modified.
func Tick(b Barracks) (next Barracks, completed []Batch) {
	next = b.Clone()
	remaining := next.Queue[:0]
	for _, bt := range next.Queue {
		bt.DaysRemaining--
		if bt.DaysRemaining > 0 {
			remaining = append(remaining, bt)
			continue
		}
		bt.DaysRemaining = 0
		land(next.Pool, bt)
		completed = append(completed, bt)
	}
	next.Queue = remaining
	return next, completed
}

func land(p Pool, bt Batch) {
	if bt.Kind == LightTrain {
		p.Add(bt.Target, catalog.Novice, Cohort{Count: bt.Quantity})
		return
	}
	for _, r := range catalog.Ranks() {
		if c, ok := bt.TakeByRank[r]; ok {
			p.Add(bt.Target, r, c)
		}
	}
}

// Recruit adds n untyped recruits at 0 XP.
//
// Postcondition: returns ErrInvalidArgument when n < 1 or the recruit count
// would overflow.
func Recruit(b Barracks, n int) (Barracks, error) {
	if n < 1 {
		return b, gameerr.Rejectf(gameerr.ErrInvalidArgument, "recruit quantity must be >= 1, got %d", n)
	}
	if n > math.MaxInt-b.Recruits.Count {
		return b, gameerr.Rejectf(gameerr.ErrInvalidArgument, "recruiting %d overflows %d waiting recruits", n, b.Recruits.Count)
	}
	next := b.Clone()
	next.Recruits = next.Recruits.Merge(Cohort{Count: n})
	return next, nil
}
