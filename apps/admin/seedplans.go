package main

import (
	"context"
	"fmt"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

var defaultPlans = []plan.NewPlan{
	{Name: "Día", Price: 5000, DurationValue: 1, DurationUnit: plan.UnitDay, Benefits: []string{"Acceso a sala de pesas"}},
	{Name: "Semana", Price: 25000, DurationValue: 1, DurationUnit: plan.UnitWeek, Benefits: []string{"Acceso a sala de pesas"}},
	{Name: "Quincena", Price: 40000, DurationValue: 1, DurationUnit: plan.UnitFortnight, Benefits: []string{"Acceso a sala de pesas"}},
	{Name: "Mensualidad", Price: 70000, DurationValue: 1, DurationUnit: plan.UnitMonth, Benefits: []string{"Acceso a sala de pesas", "Clases grupales"}},
	{Name: "Trimestre", Price: 180000, DurationValue: 3, DurationUnit: plan.UnitMonth, Benefits: []string{"Acceso a sala de pesas", "Clases grupales", "Valoración física"}},
}

// seedPlans creates the default catalog; plans already present (by name) are
// left untouched.
func (cli *commandLine) seedPlans() error {
	ctx := context.Background()

	existing, err := cli.planSvc.Query(ctx, plan.QueryFilter{})
	if err != nil {
		return err
	}
	byName := make(map[string]struct{}, len(existing))
	for _, pln := range existing {
		byName[core.CleanString(pln.Name, true /* lower */)] = struct{}{}
	}

	var created int
	for _, np := range defaultPlans {
		if _, ok := byName[core.CleanString(np.Name, true /* lower */)]; ok {
			continue
		}
		if _, err := cli.planSvc.Create(ctx, np); err != nil {
			return err
		}
		created++
	}
	fmt.Printf("%d plan(s) created\n", created)
	return nil
}
