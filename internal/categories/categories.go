// Package categories is the single source of truth for the expense taxonomy.
// The same table constrains oracle output and drives the edit menus; keeping
// one copy is what makes taxonomy closure hold.
package categories

import (
	"fmt"
	"strings"
)

type entry struct {
	name string
	subs []string
}

var table = []entry{
	{"Jedzenie", []string{
		"Jedzenie dom", "Jedzenie miasto", "Jedzenie praca", "Alkohol", "Woda",
	}},
	{"Mieszkanie / dom", []string{
		"Czynsz", "Prąd", "Konserwacja i naprawy", "Wyposażenie",
	}},
	{"Transport", []string{
		"Paliwo do auta", "Przeglądy i naprawy auta", "Wyposażenie dodatkowe",
		"Bilet komunikacji miejskiej", "Bilet PKP/PKS", "Taxi",
	}},
	{"Telekomunikacja", []string{
		"Telefon 1", "Internet", "Inne",
	}},
	{"Opieka zdrowotna", []string{
		"Lekarz", "Badania", "Lekarstwa", "Suple",
	}},
	{"Ubranie", []string{
		"Ubranie zwykłe", "Ubranie sportowe", "Buty", "Dodatki", "Inne",
	}},
	{"Higiena", []string{
		"Kosmetyki", "Środki czystości", "Fryzjer", "Inne",
	}},
	{"Rozrywka", []string{
		"Siłownia / Basen", "Kino / Teatr / Vod", "Koncerty", "Sprzęt RTV",
		"Książki", "Hobby / sprzęt sportowy", "Wakacje poza budzetem", "Inne",
	}},
	{"Inne wydatki", []string{
		"Dobroczynność", "Prezenty", "Oprogramowanie", "Edukacja / Szkolenia",
		"Podatki", "Zwierzęta",
	}},
	{"Spłata długów", []string{
		"Kredyt hipoteczny", "Kredyt konsumpcyjny", "Inne",
	}},
	{"Budowanie oszczędności", []string{
		"Fundusz awaryjny", "Fundusz wydatków nieregularnych", "Poduszka finansowa",
		"Konto emerytalne IKE/IKZE", "Krypto", "Fundusz: wakacje",
		"Fundusz: prezenty świąteczne", "Inne",
	}},
}

var emojis = map[string]string{
	"Jedzenie":               "🍔",
	"Mieszkanie / dom":       "🏠",
	"Transport":              "🚗",
	"Telekomunikacja":        "📱",
	"Opieka zdrowotna":       "🏥",
	"Ubranie":                "👕",
	"Higiena":                "🧴",
	"Rozrywka":               "🎮",
	"Inne wydatki":           "📦",
	"Spłata długów":          "💳",
	"Budowanie oszczędności": "💰",
}

// Names returns category names in display order.
func Names() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.name
	}
	return out
}

// Subcategories returns the subcategory list for a category, or nil for an
// unknown category.
func Subcategories(category string) []string {
	for _, e := range table {
		if e.name == category {
			return append([]string(nil), e.subs...)
		}
	}
	return nil
}

// Valid reports whether (category, subcategory) belongs to the taxonomy.
func Valid(category, subcategory string) bool {
	for _, s := range Subcategories(category) {
		if s == subcategory {
			return true
		}
	}
	return false
}

// Emoji returns the marker used for a category in lists; a folder for
// anything unknown.
func Emoji(category string) string {
	if e, ok := emojis[category]; ok {
		return e
	}
	return "📂"
}

// PromptContext builds the category block embedded in the oracle prompt.
func PromptContext() string {
	lines := []string{"Główne kategorie i podkategorie:"}
	for i, e := range table {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, e.name, strings.Join(e.subs, ", ")))
	}
	return strings.Join(lines, "\n")
}

// Display builds the formatted category listing.
func Display() string {
	var b strings.Builder
	for i, e := range table {
		fmt.Fprintf(&b, "%s %d. %s\n", Emoji(e.name), i+1, e.name)
		fmt.Fprintf(&b, "   %s\n\n", strings.Join(e.subs, " · "))
	}
	return b.String()
}
