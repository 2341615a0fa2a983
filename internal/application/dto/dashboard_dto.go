package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse indicadores del dashboard. Los vendedores ven solo sus negocios
// y no reciben TopPerformers.
type DashboardResponse struct {
	TotalClients        int             `json:"total_clients"`
	NewClientsThisMonth int             `json:"new_clients_this_month"`
	TotalSales          int             `json:"total_sales"`
	SalesThisMonth      int             `json:"sales_this_month"`
	ConversionRate      decimal.Decimal `json:"conversion_rate"`
	AverageTicket       decimal.Decimal `json:"average_ticket"`
	PipelineValue       decimal.Decimal `json:"pipeline_value"`
	ClientsByStage      map[string]int  `json:"clients_by_stage"`
	SalesByService      map[string]int  `json:"sales_by_service"`
	TopPerformers       []PerformerDTO  `json:"top_performers"`
	MonthStart          time.Time       `json:"month_start"`
	MonthEnd            time.Time       `json:"month_end"`
	DateLabel           string          `json:"date_label"`
}

// PerformerDTO fila del ranking de vendedores.
type PerformerDTO struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Sales   int    `json:"sales"`
	Clients int    `json:"clients"`
}
