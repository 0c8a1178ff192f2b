package models

import "github.com/shopspring/decimal"

// Prices holds the factory (PF) and maximum consumer (PMC) prices for every
// ICMS rate published by the upstream catalog. ALC variants apply to
// products covered by the ALC free trade area regime.
type Prices struct {
	PrecoFabrica20     decimal.Decimal `json:"PRECO_FABRICA_20"`
	PrecoMaximo20      decimal.Decimal `json:"PRECO_MAXIMO_20"`
	PrecoFabrica18     decimal.Decimal `json:"PRECO_FABRICA_18"`
	PrecoMaximo18      decimal.Decimal `json:"PRECO_MAXIMO_18"`
	PrecoFabrica18Alc  decimal.Decimal `json:"PRECO_FABRICA_18ALC"`
	PrecoMaximo18Alc   decimal.Decimal `json:"PRECO_MAXIMO_18ALC"`
	PrecoFabrica175    decimal.Decimal `json:"PRECO_FABRICA_175"`
	PrecoMaximo175     decimal.Decimal `json:"PRECO_MAXIMO_175"`
	PrecoFabrica175Alc decimal.Decimal `json:"PRECO_FABRICA_175ALC"`
	PrecoMaximo175Alc  decimal.Decimal `json:"PRECO_MAXIMO_175ALC"`
	PrecoFabrica17     decimal.Decimal `json:"PRECO_FABRICA_17"`
	PrecoMaximo17      decimal.Decimal `json:"PRECO_MAXIMO_17"`
	PrecoFabrica17Alc  decimal.Decimal `json:"PRECO_FABRICA_17ALC"`
	PrecoMaximo17Alc   decimal.Decimal `json:"PRECO_MAXIMO_17ALC"`
	PrecoFabrica12     decimal.Decimal `json:"PRECO_FABRICA_12"`
	PrecoMaximo12      decimal.Decimal `json:"PRECO_MAXIMO_12"`
	PrecoFabrica0      decimal.Decimal `json:"PRECO_FABRICA_0"`
	PrecoMaximo0       decimal.Decimal `json:"PRECO_MAXIMO_0"`
	PrecoFabrica22     decimal.Decimal `json:"PRECO_FABRICA_22"`
	PrecoMaximo22      decimal.Decimal `json:"PRECO_MAXIMO_22"`
	PrecoFabrica21     decimal.Decimal `json:"PRECO_FABRICA_21"`
	PrecoMaximo21      decimal.Decimal `json:"PRECO_MAXIMO_21"`
	PrecoFabrica19     decimal.Decimal `json:"PRECO_FABRICA_19"`
	PrecoMaximo19      decimal.Decimal `json:"PRECO_MAXIMO_19"`
	PrecoFabrica20Alc  decimal.Decimal `json:"PRECO_FABRICA_20ALC"`
	PrecoMaximo20Alc   decimal.Decimal `json:"PRECO_MAXIMO_20ALC"`
	PrecoFabrica19Alc  decimal.Decimal `json:"PRECO_FABRICA_19ALC"`
	PrecoMaximo19Alc   decimal.Decimal `json:"PRECO_MAXIMO_19ALC"`
	PrecoFabrica205    decimal.Decimal `json:"PRECO_FABRICA_205"`
	PrecoMaximo205     decimal.Decimal `json:"PRECO_MAXIMO_205"`
	PrecoFabrica195    decimal.Decimal `json:"PRECO_FABRICA_195"`
	PrecoMaximo195     decimal.Decimal `json:"PRECO_MAXIMO_195"`
	PrecoFabrica195Alc decimal.Decimal `json:"PRECO_FABRICA_195ALC"`
	PrecoMaximo195Alc  decimal.Decimal `json:"PRECO_MAXIMO_195ALC"`
	PrecoFabrica23     decimal.Decimal `json:"PRECO_FABRICA_23"`
	PrecoMaximo23      decimal.Decimal `json:"PRECO_MAXIMO_23"`
	PrecoFabrica225    decimal.Decimal `json:"PRECO_FABRICA_225"`
	PrecoMaximo225     decimal.Decimal `json:"PRECO_MAXIMO_225"`
}

// PriceField binds a price to its JSON name and table column.
type PriceField struct {
	JSON   string
	Column string
	ref    func(p *Prices) *decimal.Decimal
}

// Ref returns a pointer to the price held by p.
func (f PriceField) Ref(p *Prices) *decimal.Decimal {
	return f.ref(p)
}

// PriceFields lists every price in table order.
var PriceFields = []PriceField{
	{"PRECO_FABRICA_20", "preco_fabrica_20", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica20 }},
	{"PRECO_MAXIMO_20", "preco_maximo_20", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo20 }},
	{"PRECO_FABRICA_18", "preco_fabrica_18", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica18 }},
	{"PRECO_MAXIMO_18", "preco_maximo_18", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo18 }},
	{"PRECO_FABRICA_18ALC", "preco_fabrica_18alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica18Alc }},
	{"PRECO_MAXIMO_18ALC", "preco_maximo_18alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo18Alc }},
	{"PRECO_FABRICA_175", "preco_fabrica_175", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica175 }},
	{"PRECO_MAXIMO_175", "preco_maximo_175", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo175 }},
	{"PRECO_FABRICA_175ALC", "preco_fabrica_175alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica175Alc }},
	{"PRECO_MAXIMO_175ALC", "preco_maximo_175alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo175Alc }},
	{"PRECO_FABRICA_17", "preco_fabrica_17", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica17 }},
	{"PRECO_MAXIMO_17", "preco_maximo_17", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo17 }},
	{"PRECO_FABRICA_17ALC", "preco_fabrica_17alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica17Alc }},
	{"PRECO_MAXIMO_17ALC", "preco_maximo_17alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo17Alc }},
	{"PRECO_FABRICA_12", "preco_fabrica_12", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica12 }},
	{"PRECO_MAXIMO_12", "preco_maximo_12", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo12 }},
	{"PRECO_FABRICA_0", "preco_fabrica_0", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica0 }},
	{"PRECO_MAXIMO_0", "preco_maximo_0", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo0 }},
	{"PRECO_FABRICA_22", "preco_fabrica_22", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica22 }},
	{"PRECO_MAXIMO_22", "preco_maximo_22", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo22 }},
	{"PRECO_FABRICA_21", "preco_fabrica_21", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica21 }},
	{"PRECO_MAXIMO_21", "preco_maximo_21", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo21 }},
	{"PRECO_FABRICA_19", "preco_fabrica_19", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica19 }},
	{"PRECO_MAXIMO_19", "preco_maximo_19", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo19 }},
	{"PRECO_FABRICA_20ALC", "preco_fabrica_20alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica20Alc }},
	{"PRECO_MAXIMO_20ALC", "preco_maximo_20alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo20Alc }},
	{"PRECO_FABRICA_19ALC", "preco_fabrica_19alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica19Alc }},
	{"PRECO_MAXIMO_19ALC", "preco_maximo_19alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo19Alc }},
	{"PRECO_FABRICA_205", "preco_fabrica_205", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica205 }},
	{"PRECO_MAXIMO_205", "preco_maximo_205", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo205 }},
	{"PRECO_FABRICA_195", "preco_fabrica_195", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica195 }},
	{"PRECO_MAXIMO_195", "preco_maximo_195", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo195 }},
	{"PRECO_FABRICA_195ALC", "preco_fabrica_195alc", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica195Alc }},
	{"PRECO_MAXIMO_195ALC", "preco_maximo_195alc", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo195Alc }},
	{"PRECO_FABRICA_23", "preco_fabrica_23", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica23 }},
	{"PRECO_MAXIMO_23", "preco_maximo_23", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo23 }},
	{"PRECO_FABRICA_225", "preco_fabrica_225", func(p *Prices) *decimal.Decimal { return &p.PrecoFabrica225 }},
	{"PRECO_MAXIMO_225", "preco_maximo_225", func(p *Prices) *decimal.Decimal { return &p.PrecoMaximo225 }},
}
