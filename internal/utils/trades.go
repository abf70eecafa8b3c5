package utils

import (
	"sort"
	"strings"
)

// TradeCategory - группа специальностей в каталоге
type TradeCategory struct {
	Name   string   `json:"name"`
	Trades []string `json:"trades"`
}

var tradeTaxonomy = []TradeCategory{
	{Name: "Structural", Trades: []string{"Bricklayer", "Carpenter", "Concreter", "Formworker", "Scaffolder", "Steel Fixer"}},
	{Name: "Services", Trades: []string{"Electrician", "Plumber", "Gasfitter", "HVAC Technician", "Fire Protection", "Data Cabler"}},
	{Name: "Finishing", Trades: []string{"Painter", "Plasterer", "Tiler", "Floor Layer", "Cabinet Maker", "Glazier"}},
	{Name: "Exterior", Trades: []string{"Roofer", "Landscaper", "Fencer", "Excavator Operator", "Paver"}},
	{Name: "Specialist", Trades: []string{"Asbestos Removal", "Demolition", "Waterproofer", "Insulation Installer", "Solar Installer"}},
}

var tradeIndex = func() map[string]string {
	idx := make(map[string]string)
	for _, c := range tradeTaxonomy {
		for _, t := range c.Trades {
			idx[strings.ToLower(t)] = t
		}
	}
	return idx
}()

// TradeTaxonomy возвращает копию каталога специальностей
func TradeTaxonomy() []TradeCategory {
	out := make([]TradeCategory, len(tradeTaxonomy))
	for i, c := range tradeTaxonomy {
		out[i] = TradeCategory{Name: c.Name, Trades: append([]string(nil), c.Trades...)}
	}
	return out
}

// AllTrades - плоский отсортированный список
func AllTrades() []string {
	out := make([]string, 0, len(tradeIndex))
	for _, t := range tradeIndex {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CanonicalTrade приводит ввод пользователя к названию из каталога ("plumber" -> "Plumber")
func CanonicalTrade(s string) (string, bool) {
	t, ok := tradeIndex[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}
