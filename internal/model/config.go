package model

// DashboardConfig holds the merged file and flag settings.
type DashboardConfig struct {
	DataDir     string            `validate:"required"`
	Archive     string            `validate:"omitempty,endswith=.zip"`
	Bundle      string            `validate:"omitempty"`
	Mode        string            `validate:"omitempty"`
	Phase       string            `validate:"omitempty,oneof=Powerplay Middle Death"`
	Top         int               `validate:"gte=1"`
	RecentSince int               `validate:"gte=0"`
	Polarity    map[string]string `validate:"dive,keys,required,endkeys,oneof=asc desc"`
	LogLevel    string            `validate:"oneof=debug info warn error"`
	LogFile     string
}
