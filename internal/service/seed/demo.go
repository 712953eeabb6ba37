package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

func day(base time.Time, offset int) *time.Time {
	d := base.AddDate(0, 0, offset)
	return &d
}

func label(start, end *time.Time) string {
	return start.Format(models.DateLayout) + " ~ " + end.Format(models.DateLayout)
}

func milestone(today time.Time, from, to int, content string, done bool) models.Milestone {
	start, end := day(today, from), day(today, to)
	return models.Milestone{
		TimeLabel: label(start, end),
		Content:   content,
		Start:     start,
		End:       end,
		Done:      done,
	}
}

func demoProjects(today time.Time) []models.Project {
	return []models.Project{
		{
			Name:        "Greenhouse No.2 foundation",
			Description: "Excavation, footing and slab for the second greenhouse.",
			Leader:      "admin",
			Members:     []string{"Staff01", "Staff02"},
			Status:      models.ProjectInProgress,
			CreatedAt:   today.AddDate(0, 0, -45),
			Nodes: []models.Milestone{
				milestone(today, -45, -30, "Site survey and excavation", true),
				milestone(today, -29, -5, "Footing and rebar", false),
				milestone(today, -4, 20, "Slab pour and curing", false),
			},
		},
		{
			Name:        "East fence replacement",
			Description: "Replace 400 m of perimeter fence on the east side.",
			Leader:      "Staff01",
			Members:     []string{"Staff03"},
			Status:      models.ProjectPlanning,
			CreatedAt:   today.AddDate(0, 0, -10),
			Nodes: []models.Milestone{
				milestone(today, 5, 12, "Material delivery", false),
				milestone(today, 13, 30, "Post and mesh installation", false),
			},
		},
		{
			Name:        "Irrigation pump house",
			Description: "Shelter and wiring for pump No.1.",
			Leader:      "admin",
			Members:     []string{"Staff02"},
			Status:      models.ProjectCompleted,
			CreatedAt:   today.AddDate(0, -3, 0),
			Nodes: []models.Milestone{
				{TimeLabel: "Month 1", Content: "Structure", Done: true},
				{TimeLabel: "Month 2", Content: "Electrical", Done: true},
			},
		},
	}
}

func demoItems() []models.InventoryItem {
	price := decimal.RequireFromString
	return []models.InventoryItem{
		{SKU: "CEM-001", Name: "Cement", Spec: "P.O 42.5 50kg", Quantity: 120, UnitPrice: price("28.50")},
		{SKU: "REB-012", Name: "Rebar", Spec: "HRB400 Φ12 9m", Quantity: 60, UnitPrice: price("46.00")},
		{SKU: "PVC-110", Name: "PVC pipe", Spec: "DN110 4m", Quantity: 35, UnitPrice: price("39.90")},
		{SKU: "WIR-025", Name: "Copper wire", Spec: "BV 2.5mm² 100m", Quantity: 12, UnitPrice: price("189.00")},
		{SKU: "FEN-200", Name: "Fence mesh", Spec: "1.8m x 30m", Quantity: 8, UnitPrice: price("320.00")},
		{SKU: "BLT-M12", Name: "Anchor bolt", Spec: "M12 x 150", Quantity: 400, UnitPrice: price("1.20")},
	}
}

func demoTasks(today time.Time) []models.MaintenanceTask {
	task := func(name string, period models.Period, offset int, done bool) models.MaintenanceTask {
		due := today.AddDate(0, 0, offset)
		return models.MaintenanceTask{
			Name:    name,
			Period:  period,
			Quarter: models.QuarterLabel(due),
			DueDate: due,
			Done:    done,
		}
	}
	return []models.MaintenanceTask{
		task("Pump No.1 inspection", models.PeriodWeekly, -2, false),
		task("East fence check", models.PeriodWeekly, 3, false),
		task("Greenhouse film inspection", models.PeriodMonthly, -9, true),
		task("Generator service", models.PeriodQuarterly, 21, false),
	}
}

func demoContacts() []models.Contact {
	return []models.Contact{
		{Category: "engineering liaison", Name: "Zhang Wei", Phone: "+86 138 0000 1001"},
		{Category: "engineering liaison", Name: "Li Na", Phone: "+86 139 0000 2002"},
		{Category: "hospital", Name: "County People's Hospital", Phone: "120"},
		{Category: "supplier", Name: "Hengda Building Materials", Phone: "+86 0571 8800 3003"},
	}
}
