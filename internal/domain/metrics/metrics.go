// Package metrics calcula los indicadores del dashboard a partir de los
// negocios visibles para el usuario. Es puro: no hace I/O.
package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/pipeline"
)

// TopPerformersLimit cantidad de vendedores en el ranking.
const TopPerformersLimit = 5

var hundred = decimal.NewFromInt(100)

// Input datos de entrada del cálculo.
type Input struct {
	Now               time.Time
	Location          *time.Location // cortes mensuales; nil = UTC
	Businesses        []*entity.Business
	Services          []*entity.Service
	Stages            []entity.PipelineStage
	Users             []*entity.User
	IncludePerformers bool
}

// Performer fila del ranking de vendedores.
type Performer struct {
	UserID  string
	Name    string
	Sales   int
	Clients int
}

// Result indicadores calculados.
type Result struct {
	TotalClients        int
	NewClientsThisMonth int
	TotalSales          int
	SalesThisMonth      int
	ConversionRate      decimal.Decimal // porcentaje, 2 decimales
	AverageTicket       decimal.Decimal
	PipelineValue       decimal.Decimal
	ClientsByStage      map[string]int
	SalesByService      map[string]int
	TopPerformers       []Performer
	MonthStart          time.Time
	MonthEnd            time.Time
}

// MonthBounds devuelve [inicio, fin) del mes de now en loc.
func MonthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Compute recorre los negocios una vez y arma el Result.
func Compute(in Input) Result {
	start, end := MonthBounds(in.Now, in.Location)
	res := Result{
		TotalClients:   len(in.Businesses),
		ConversionRate: decimal.Zero,
		AverageTicket:  AverageTicket(in.Services),
		PipelineValue:  decimal.Zero,
		ClientsByStage: map[string]int{},
		SalesByService: map[string]int{},
		TopPerformers:  []Performer{},
		MonthStart:     start,
		MonthEnd:       end,
	}

	kinds := pipeline.KindIndex(in.Stages)
	services := make(map[string]*entity.Service, len(in.Services))
	for _, s := range in.Services {
		services[s.ID] = s
	}

	for _, b := range in.Businesses {
		res.ClientsByStage[b.StageID]++
		if inRange(b.CreatedAt, start, end) {
			res.NewClientsThisMonth++
		}
		svc := services[b.ServiceID]
		switch kinds[b.StageID] {
		case entity.StageKindWon:
			res.TotalSales++
			if inRange(b.UpdatedAt, start, end) {
				res.SalesThisMonth++
			}
			if svc != nil {
				res.SalesByService[svc.Name]++
			}
		case entity.StageKindLost:
		default:
			if svc != nil {
				if p := svc.PlanByID(b.PlanID); p != nil {
					res.PipelineValue = res.PipelineValue.Add(p.Price)
				}
			}
		}
	}

	if res.TotalClients > 0 {
		res.ConversionRate = decimal.NewFromInt(int64(res.TotalSales)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(res.TotalClients))).
			Round(2)
	}
	if in.IncludePerformers {
		res.TopPerformers = TopPerformers(in.Users, in.Businesses, kinds, TopPerformersLimit)
	}
	return res
}

// AverageTicket promedio, entre servicios con al menos un plan, del precio medio de sus planes.
func AverageTicket(services []*entity.Service) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, s := range services {
		if len(s.Plans) == 0 {
			continue
		}
		planSum := decimal.Zero
		for _, p := range s.Plans {
			planSum = planSum.Add(p.Price)
		}
		sum = sum.Add(planSum.Div(decimal.NewFromInt(int64(len(s.Plans)))))
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// TopPerformers ranking por ventas desc, clientes desc y nombre asc.
func TopPerformers(users []*entity.User, businesses []*entity.Business, kinds map[string]string, limit int) []Performer {
	byUser := make(map[string]*Performer, len(users))
	out := make([]Performer, 0, len(users))
	for _, u := range users {
		byUser[u.ID] = &Performer{UserID: u.ID, Name: u.Name}
	}
	for _, b := range businesses {
		p, ok := byUser[b.AssignedTo]
		if !ok {
			continue
		}
		p.Clients++
		if kinds[b.StageID] == entity.StageKindWon {
			p.Sales++
		}
	}
	for _, u := range users {
		out = append(out, *byUser[u.ID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		if out[i].Clients != out[j].Clients {
			return out[i].Clients > out[j].Clients
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
