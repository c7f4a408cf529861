package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/production"
	"github.com/cory-johannsen/warlord/internal/game/realm"
	"github.com/cory-johannsen/warlord/internal/storage/postgres"
)

func table(w io.Writer, header ...string) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithHeader(header))
}

func renderStatus(w io.Writer, e *realm.Engine, s realm.State) {
	titleColor.Fprintf(w, "Day %d  |  Wallet %s\n\n", s.Day, catalog.FormatCopper(s.Wallet))

	fmt.Fprintln(w, "Buildings:")
	bt := table(w, "ID", "Type", "Output", "Coin focus", "Buffer")
	for _, b := range s.Buildings {
		spec, _ := production.SpecFor(b.Type)
		output, focus, buffer := "-", "-", "-"
		if spec.Role == production.RoleGoods || spec.Role == production.RoleMint {
			output = b.Output()
			focus = fmt.Sprintf("%d%%", b.FocusCoinPct)
			buffer = fmt.Sprintf("%.2f", b.FractionalBuffer)
		}
		bt.Append([]string{b.ID, string(b.Type), output, focus, buffer})
	}
	bt.Render()

	fmt.Fprintln(w, "\nStock:")
	st := table(w, "Category", "Item", "Qty")
	for _, row := range stockRows(s) {
		st.Append(row)
	}
	st.Render()

	fmt.Fprintf(w, "\nBarracks: level %d, %d recruits, %d/%d batch slots free, %d/%d units training\n",
		s.Barracks.Level, s.Barracks.Recruits.Count,
		s.Barracks.FreeSlots(), barracks.Slots(s.Barracks.Level),
		s.TrainingUnits(), s.TrainingSlots())
	if len(s.Barracks.Queue) > 0 {
		qt := table(w, "Batch", "Kind", "From", "To", "Qty", "Days left")
		for _, b := range s.Barracks.Queue {
			from := string(b.Source)
			if b.Kind == barracks.LightTrain {
				from = "recruits"
			}
			qt.Append([]string{b.ID, string(b.Kind), from, string(b.Target), strconv.Itoa(b.Quantity), strconv.Itoa(b.DaysRemaining)})
		}
		qt.Render()
	}

	if rows := e.PoolRows(s); len(rows) > 0 {
		fmt.Fprintln(w, "\nPool:")
		pt := table(w, "Type", "Rank", "Count", "Avg XP")
		for _, r := range rows {
			pt.Append([]string{string(r.Type), r.Rank.String(), strconv.Itoa(r.Count), strconv.Itoa(r.AvgXP)})
		}
		pt.Render()
	}

	if views := e.Units(s); len(views) > 0 {
		fmt.Fprintln(w, "\nUnits:")
		ut := table(w, "ID", "Unit", "Size", "Avg XP", "Ready", "Training", "Missing")
		for _, v := range views {
			missing := make([]string, len(v.Missing))
			for i, m := range v.Missing {
				missing[i] = m.String()
			}
			training := ""
			if v.Training {
				training = "yes"
			}
			ut.Append([]string{
				v.ID, v.Name, strconv.Itoa(v.Size()), strconv.Itoa(v.AvgXP),
				fmt.Sprintf("%d/%d", v.Readiness, v.Size()), training, strings.Join(missing, ", "),
			})
		}
		ut.Render()
	}
}

// stockRows lists non-zero inventory and resources, sorted for stable output.
func stockRows(s realm.State) [][]string {
	var rows [][]string
	add := func(cat catalog.Category, m map[string]int) {
		ids := make([]string, 0, len(m))
		for id, n := range m {
			if n != 0 {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			rows = append(rows, []string{string(cat), id, strconv.Itoa(m[id])})
		}
	}
	add(catalog.CategoryWeapon, s.Inventory.Weapons)
	add(catalog.CategoryArmor, s.Inventory.Armors)
	horses := make(map[string]int, len(s.Inventory.Horses))
	for id, h := range s.Inventory.Horses {
		horses[id] = h.Active
	}
	add(catalog.CategoryHorse, horses)
	add(catalog.CategoryResource, s.Resources)
	return rows
}

func renderCatalog(w io.Writer, reg *catalog.Registry) {
	fmt.Fprintln(w, "Items:")
	it := table(w, "ID", "Name", "Category", "Price")
	for _, d := range reg.AllItems() {
		it.Append([]string{d.ID, d.Name, string(d.Category), catalog.FormatCopper(d.Price)})
	}
	it.Render()

	fmt.Fprintln(w, "\nUnits:")
	ut := table(w, "Type", "Name", "Per soldier")
	for _, u := range reg.AllUnits() {
		ut.Append([]string{string(u.ID), u.Name, u.Requirement.String()})
	}
	ut.Render()

	fmt.Fprintln(w, "\nRecipes:")
	rt := table(w, "Output", "Inputs")
	for _, rc := range reg.AllRecipes() {
		ins := make([]string, 0, len(rc.Inputs))
		for id, n := range rc.Inputs {
			ins = append(ins, fmt.Sprintf("%d %s", n, id))
		}
		sort.Strings(ins)
		rt.Append([]string{rc.Output, strings.Join(ins, ", ")})
	}
	rt.Render()

	fmt.Fprintln(w, "\nBuildings:")
	bt := table(w, "Type", "Cost", "Daily budget", "Outputs")
	for _, t := range production.BuildingTypes() {
		spec, _ := production.SpecFor(t)
		bt.Append([]string{string(t), catalog.FormatCopper(spec.Cost), catalog.FormatCopper(int64(spec.DailyBudget())), strings.Join(spec.Outputs, ", ")})
	}
	bt.Render()
}

func renderSaves(w io.Writer, saves []postgres.SaveInfo) {
	t := table(w, "Save", "Day", "Wallet", "Updated")
	for _, s := range saves {
		t.Append([]string{s.ID, strconv.Itoa(s.Day), catalog.FormatCopper(s.Wallet), s.UpdatedAt.Format("2006-01-02 15:04:05")})
	}
	t.Render()
}
