package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key is also the English format string.
const (
	msgHeader      = "Supernovae from: %s to %s. Magnitude <= %.1f"
	msgSite        = "Site %s: lon: %.2f lat: %.2f height: %.2fm"
	msgMinAltitude = "Min alt %.1fº"
	msgWindow      = "Window %s: minAlt %.1fº maxAlt %.1fº minAz %.1fº maxAz %.1fº"
	msgEntry       = "Date: %s, Mag: %s, T: %s, Name: %s"
	msgConst       = "Const: %s, Host: %s"
	msgCoord       = "RA: %s, DECL. %s"
	msgVisible     = "Visible from: %s to: %s"
	msgFirst       = "First az: %s, alt: %s"
	msgLast        = "Last az: %s, alt: %s"
	msgDiscovered  = "Discovered: %s, Max mag: %s on: %s"
	msgNone        = "No supernovae match the search."
	msgPage        = "Page %d"
	msgAltitude    = "Altitude (º)"
	msgTime        = "Time (UTC)"
)

var translations = map[string]string{
	msgHeader:      "Supernovas desde: %s hasta %s. Magnitud <= %.1f",
	msgSite:        "Lugar %s: lon: %.2f lat: %.2f altura: %.2fm",
	msgMinAltitude: "Alt mín %.1fº",
	msgWindow:      "Ventana %s: altMín %.1fº altMáx %.1fº azMín %.1fº azMáx %.1fº",
	msgEntry:       "Fecha: %s, Mag: %s, T: %s, Nombre: %s",
	msgConst:       "Const: %s, Galaxia: %s",
	msgCoord:       "AR: %s, DECL. %s",
	msgVisible:     "Visible desde: %s hasta: %s",
	msgFirst:       "Primer az: %s, alt: %s",
	msgLast:        "Último az: %s, alt: %s",
	msgDiscovered:  "Descubierta: %s, Mag máx: %s el: %s",
	msgNone:        "Ninguna supernova cumple la búsqueda.",
	msgPage:        "Página %d",
	msgAltitude:    "Altitud (º)",
	msgTime:        "Hora (UTC)",
}

var (
	messages = newCatalog()
	matcher  = language.NewMatcher([]language.Tag{language.English, language.Spanish})
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, es := range translations {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
		if err := b.SetString(language.Spanish, key, es); err != nil {
			panic(err)
		}
	}
	return b
}

// NewPrinter returns a printer for lang ("en", "es"). Unknown languages
// fall back to English.
func NewPrinter(lang string) *message.Printer {
	tag, _, _ := matcher.Match(language.Make(lang))
	base, _ := tag.Base()
	return message.NewPrinter(language.Make(base.String()), message.Catalog(messages))
}
