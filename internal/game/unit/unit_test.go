package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/unit"
)

func swordsmen(id string, n int, swords int) unit.Unit {
	return unit.New(id, catalog.LightInfSword,
		[]unit.Bucket{{Rank: catalog.Novice, Count: n}},
		catalog.Gear{
			Weapons: map[string]int{"SWORD": swords},
			Armors:  map[string]int{"LIGHT_ARMOR": n, "SHIELD": n},
		})
}

func TestComputeAvgXP(t *testing.T) {
	assert.Equal(t, 0, unit.ComputeAvgXP(nil))
	assert.Equal(t, 33, unit.ComputeAvgXP([]unit.Bucket{
		{Rank: catalog.Novice, Count: 2, AvgXP: 0},
		{Rank: catalog.Trained, Count: 1, AvgXP: 100},
	}))
}

func TestNew_NormalisesBuckets(t *testing.T) {
	u := unit.New("U1", catalog.LightArcher, []unit.Bucket{
		{Rank: catalog.Advanced, Count: 4, AvgXP: 300},
		{Rank: catalog.Novice, Count: 0, AvgXP: 0},
		{Rank: catalog.Advanced, Count: 4, AvgXP: 100},
		{Rank: catalog.Novice, Count: 2, AvgXP: 10},
	}, catalog.Gear{})
	require.Len(t, u.Buckets, 2)
	assert.Equal(t, catalog.Novice, u.Buckets[0].Rank)
	assert.Equal(t, unit.Bucket{Rank: catalog.Advanced, Count: 8, AvgXP: 200}, u.Buckets[1])
	assert.Equal(t, 10, u.Size())
}

func TestReadiness_WeakestLink(t *testing.T) {
	reg := catalog.Core()
	u := swordsmen("U1", 50, 30)
	assert.Equal(t, 30, unit.Readiness(reg, u))

	missing := unit.MissingEquipment(reg, u)
	require.Len(t, missing, 1)
	assert.Equal(t, "SWORD: 20", missing[0].String())
}

func TestReadiness_FullyEquipped(t *testing.T) {
	reg := catalog.Core()
	u := swordsmen("U1", 50, 60)
	assert.Equal(t, 50, unit.Readiness(reg, u), "surplus never exceeds size")
	assert.Empty(t, unit.MissingEquipment(reg, u))
}

func TestReadiness_UnknownTypeIsZero(t *testing.T) {
	u := unit.New("U1", "DRAGON_RIDER", []unit.Bucket{{Rank: catalog.Novice, Count: 5}}, catalog.Gear{})
	assert.Equal(t, 0, unit.Readiness(catalog.Core(), u))
}

func TestRequiredEquipment_LoadoutWeaponOverride(t *testing.T) {
	reg := catalog.Core()
	u := unit.New("U1", catalog.LightCav, []unit.Bucket{{Rank: catalog.Trained, Count: 10}}, catalog.Gear{})
	u.Loadout = catalog.Loadout{Weapon: "SWORD", LightArmor: true}

	req := unit.RequiredEquipment(reg, u)
	assert.Equal(t, 10, req.Get(catalog.CategoryWeapon, "SWORD"))
	_, hasSpear := req.Weapons["SPEAR"]
	assert.False(t, hasSpear)
	assert.Equal(t, 10, req.Get(catalog.CategoryHorse, "LIGHT_HORSE"))
}

func TestSplit_RejectsOutOfRange(t *testing.T) {
	u := swordsmen("U1", 10, 10)
	for _, take := range []int{0, -1, 10, 11} {
		_, _, err := unit.Split(u, take, "U2")
		assert.ErrorIs(t, err, gameerr.ErrInvalidArgument, "take=%d", take)
	}
}

func TestSplit_ReconcilesRoundingDrift(t *testing.T) {
	// Three buckets of 1 with take 2 rounds every bucket to 1 (over-take by 1).
	u := unit.New("U1", catalog.LightArcher, []unit.Bucket{
		{Rank: catalog.Novice, Count: 1, AvgXP: 0},
		{Rank: catalog.Trained, Count: 1, AvgXP: 100},
		{Rank: catalog.Advanced, Count: 1, AvgXP: 300},
	}, catalog.Gear{Weapons: map[string]int{"BOW": 3}})
	u.Training = true

	rem, taken, err := unit.Split(u, 2, "U2")
	require.NoError(t, err)
	assert.Equal(t, 2, taken.Size())
	assert.Equal(t, 1, rem.Size())
	assert.False(t, taken.Training)
	assert.True(t, rem.Training)
	assert.Equal(t, 2, taken.Equip.Get(catalog.CategoryWeapon, "BOW"))
	assert.Equal(t, 1, rem.Equip.Get(catalog.CategoryWeapon, "BOW"))
	assert.Equal(t, "U1", rem.ID)
	assert.Equal(t, "U2", taken.ID)
}

func TestPairForMerge_TypeMismatch(t *testing.T) {
	a := swordsmen("A", 5, 5)
	b := unit.New("B", catalog.LightArcher, []unit.Bucket{{Rank: catalog.Novice, Count: 5}}, catalog.Gear{})
	_, err := unit.PairForMerge(a, b)
	assert.ErrorIs(t, err, gameerr.ErrTypeMismatch)

	_, err = unit.PairForMerge(a, a)
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
}

func TestMerge_CombinesBucketsAndEquip(t *testing.T) {
	a := unit.New("A", catalog.LightInfSword, []unit.Bucket{{Rank: catalog.Novice, Count: 10, AvgXP: 20}}, catalog.Gear{Weapons: map[string]int{"SWORD": 10}})
	b := unit.New("B", catalog.LightInfSword, []unit.Bucket{
		{Rank: catalog.Novice, Count: 10, AvgXP: 40},
		{Rank: catalog.Veteran, Count: 5, AvgXP: 900},
	}, catalog.Gear{Weapons: map[string]int{"SWORD": 3}, Armors: map[string]int{"SHIELD": 15}})
	a.Training = true

	p, err := unit.PairForMerge(a, b)
	require.NoError(t, err)
	m := unit.Merge(p, "C")
	assert.Equal(t, "C", m.ID)
	assert.Equal(t, []unit.Bucket{
		{Rank: catalog.Novice, Count: 20, AvgXP: 30},
		{Rank: catalog.Veteran, Count: 5, AvgXP: 900},
	}, m.Buckets)
	assert.Equal(t, 13, m.Equip.Get(catalog.CategoryWeapon, "SWORD"))
	assert.Equal(t, 15, m.Equip.Get(catalog.CategoryArmor, "SHIELD"))
	assert.False(t, m.Training)
}

func TestTrainOneDay(t *testing.T) {
	u := unit.New("U1", catalog.LightInfSpear, []unit.Bucket{
		{Rank: catalog.Novice, Count: 1, AvgXP: 0},
		{Rank: catalog.Advanced, Count: 1, AvgXP: 100},
		{Rank: catalog.Elite, Count: 2, AvgXP: 1000},
	}, catalog.Gear{})
	next := unit.TrainOneDay(u)
	assert.Equal(t, 25, next.Buckets[0].AvgXP)
	assert.Equal(t, 145, next.Buckets[1].AvgXP)
	assert.Equal(t, 1000, next.Buckets[2].AvgXP)
	assert.Equal(t, (25+145+2000)/4, next.AvgXP)
	assert.Equal(t, 0, u.Buckets[0].AvgXP, "input must not be mutated")
}

func TestSelectForTraining_FirstNInOrder(t *testing.T) {
	units := []unit.Unit{{Training: false}, {Training: true}, {Training: true}, {Training: true}}
	assert.Equal(t, []int{1, 2}, unit.SelectForTraining(units, 2))
	assert.Empty(t, unit.SelectForTraining(units, 0))
}

func TestReinforce_AppliesBonus(t *testing.T) {
	u := unit.New("U1", catalog.LightInfSword, []unit.Bucket{{Rank: catalog.Trained, Count: 10, AvgXP: 200}}, catalog.Gear{})
	next, bonus := unit.Reinforce(u, []unit.Bucket{{Rank: catalog.Trained, Count: 10, AvgXP: 100}},
		catalog.Gear{Weapons: map[string]int{"SWORD": 10}})
	assert.Equal(t, 20, bonus)
	assert.Equal(t, 20, next.Size())
	assert.Equal(t, (200*10+120*10)/20, next.AvgXP)
	assert.Equal(t, 10, next.Equip.Get(catalog.CategoryWeapon, "SWORD"))
}

func drawUnit(t *rapid.T, id string) unit.Unit {
	var buckets []unit.Bucket
	for _, r := range catalog.Ranks() {
		buckets = append(buckets, unit.Bucket{
			Rank:  r,
			Count: rapid.IntRange(0, 60).Draw(t, id+"-"+r.String()+"-count"),
			AvgXP: rapid.IntRange(0, 2000).Draw(t, id+"-"+r.String()+"-xp"),
		})
	}
	equip := catalog.Gear{}
	for _, item := range []string{"SWORD", "BOW"} {
		equip.Set(catalog.CategoryWeapon, item, rapid.IntRange(0, 300).Draw(t, id+"-"+item))
	}
	equip.Set(catalog.CategoryHorse, "LIGHT_HORSE", rapid.IntRange(0, 300).Draw(t, id+"-horse"))
	return unit.New(id, catalog.LightInfSword, buckets, equip)
}

func assertConsistent(t *rapid.T, u unit.Unit) {
	sum := 0
	for _, b := range u.Buckets {
		if b.Count <= 0 {
			t.Fatalf("empty bucket kept: %+v", b)
		}
		sum += b.Count
	}
	if sum != u.Size() {
		t.Fatalf("bucket sum %d != size %d", sum, u.Size())
	}
	if u.AvgXP != unit.ComputeAvgXP(u.Buckets) {
		t.Fatalf("avgXP %d != weighted mean %d", u.AvgXP, unit.ComputeAvgXP(u.Buckets))
	}
}

func TestProperty_Split_ConservesSoldiersAndEquipment(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := drawUnit(t, "U")
		size := u.Size()
		if size < 2 {
			t.Skip("need at least two soldiers")
		}
		take := rapid.IntRange(1, size-1).Draw(t, "take")

		rem, taken, err := unit.Split(u, take, "T")
		if err != nil {
			t.Fatalf("split: %v", err)
		}
		if taken.Size() != take || rem.Size()+taken.Size() != size {
			t.Fatalf("mass not conserved: take=%d taken=%d rem=%d size=%d", take, taken.Size(), rem.Size(), size)
		}
		for _, r := range catalog.Ranks() {
			if rem.CountAt(r)+taken.CountAt(r) != u.CountAt(r) {
				t.Fatalf("rank %s not conserved", r)
			}
		}
		u.Equip.Each(func(cat catalog.Category, id string, have int) {
			if rem.Equip.Get(cat, id)+taken.Equip.Get(cat, id) != have {
				t.Fatalf("equipment %s not conserved", id)
			}
		})
		assertConsistent(t, rem)
		assertConsistent(t, taken)
	})
}

func TestProperty_Merge_Commutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawUnit(t, "A")
		b := drawUnit(t, "B")

		pab, err := unit.PairForMerge(a, b)
		if err != nil {
			t.Fatalf("pair: %v", err)
		}
		pba, err := unit.PairForMerge(b, a)
		if err != nil {
			t.Fatalf("pair: %v", err)
		}
		ab := unit.Merge(pab, "M")
		ba := unit.Merge(pba, "M")
		assert.Equal(t, ab.Buckets, ba.Buckets)
		assert.Equal(t, ab.AvgXP, ba.AvgXP)
		assert.Equal(t, ab.Equip, ba.Equip)
		if ab.Size() != a.Size()+b.Size() {
			t.Fatalf("merge size %d != %d+%d", ab.Size(), a.Size(), b.Size())
		}
		assertConsistent(t, ab)
	})
}

func TestProperty_TrainOneDay_PreservesCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := drawUnit(t, "U")
		next := unit.TrainOneDay(u)
		for _, r := range catalog.Ranks() {
			if next.CountAt(r) != u.CountAt(r) {
				t.Fatalf("rank %s count changed", r)
			}
		}
		if next.AvgXP < u.AvgXP {
			t.Fatalf("avgXP decreased: %d -> %d", u.AvgXP, next.AvgXP)
		}
		assertConsistent(t, next)
	})
}
