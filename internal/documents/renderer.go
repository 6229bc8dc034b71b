// Package documents renders invoices, vouchers and organizer credentials to PDF.
//
// Rendering has two stages. Compose turns a template context into a Document,
// a plain layout value that tests can compare. The PDF writer then lays the
// Document out with gofpdf. Output depends only on the template and its
// context; the only time printed is the context's GeneratedAt.
package documents

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookingdesk/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

// RenderError wraps a template or data failure
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == apperror.ErrRender }

// Row is a label/value pair
type Row struct {
	Label string
	Value string
}

// Table is a simple grid with fixed column widths in millimetres
type Table struct {
	Columns []string
	Widths  []float64
	Align   []string
	Rows    [][]string
}

// Block is a titled group of rows, optionally followed by a table
type Block struct {
	Heading string
	Rows    []Row
	Table   *Table
}

// Document is the composed layout of a PDF
type Document struct {
	Template      string
	Title         string
	Reference     string
	Issuer        []string
	Blocks        []Block
	Totals        []Row
	AmountInWords string
	Footer        []string
	GeneratedAt   time.Time
}

// Options configures a Renderer
type Options struct {
	Company  Party
	Locale   string
	Currency string
}

// Renderer turns template contexts into PDF bytes
type Renderer struct {
	company  Party
	locale   string
	currency string
}

func NewRenderer(opts Options) *Renderer {
	if opts.Locale == "" {
		opts.Locale = "fr"
	}
	if opts.Currency == "" {
		opts.Currency = "MAD"
	}
	return &Renderer{company: opts.Company, locale: opts.Locale, currency: opts.Currency}
}

// Render composes and writes templateName with data
func (r *Renderer) Render(templateName string, data any) ([]byte, error) {
	doc, err := r.Compose(templateName, data)
	if err != nil {
		return nil, err
	}
	out, err := writePDF(doc)
	if err != nil {
		return nil, &RenderError{Template: templateName, Err: err}
	}
	return out, nil
}

// Compose builds the layout for templateName without producing PDF bytes
func (r *Renderer) Compose(templateName string, data any) (*Document, error) {
	switch templateName {
	case TemplateInvoice:
		switch c := data.(type) {
		case InvoiceContext:
			return r.composeInvoice(&c), nil
		case *InvoiceContext:
			if c != nil {
				return r.composeInvoice(c), nil
			}
		}
	case TemplateVoucher:
		switch c := data.(type) {
		case VoucherContext:
			return r.composeVoucher(&c), nil
		case *VoucherContext:
			if c != nil {
				return r.composeVoucher(c), nil
			}
		}
	case TemplateOrganizerCredentials:
		switch c := data.(type) {
		case CredentialsContext:
			return r.composeCredentials(&c), nil
		case *CredentialsContext:
			if c != nil {
				return r.composeCredentials(c), nil
			}
		}
	default:
		return nil, &RenderError{Template: templateName, Err: fmt.Errorf("unknown template")}
	}
	return nil, &RenderError{Template: templateName, Err: fmt.Errorf("unexpected context %T", data)}
}

func (r *Renderer) issuer() []string {
	var lines []string
	for _, s := range []string{r.company.Name, r.company.Address, r.company.Phone, r.company.Email} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if r.company.TaxID != "" {
		lines = append(lines, "ICE : "+r.company.TaxID)
	}
	return lines
}

func (r *Renderer) currencyOr(c string) string {
	if c == "" {
		return r.currency
	}
	return c
}

func (r *Renderer) composeInvoice(c *InvoiceContext) *Document {
	currency := r.currencyOr(c.Currency)

	total := c.TotalAmount
	if total.IsZero() {
		for _, l := range c.Lines {
			total = total.Add(l.Total())
		}
	}
	b := TaxBreakdown(total)

	table := &Table{
		Columns: []string{"Désignation", "Qté", "P.U. TTC", "Total TTC"},
		Widths:  []float64{100, 15, 35, 40},
		Align:   []string{"L", "C", "R", "R"},
	}
	for _, l := range c.Lines {
		q := l.Quantity
		if q <= 0 {
			q = 1
		}
		table.Rows = append(table.Rows, []string{
			orDash(l.Description),
			strconv.Itoa(q),
			money(l.UnitPrice, currency),
			money(l.Total(), currency),
		})
	}

	client := []Row{{"Client", orDash(c.Client.Name)}}
	if c.Client.Address != "" {
		client = append(client, Row{"Adresse", c.Client.Address})
	}
	if c.Client.Email != "" {
		client = append(client, Row{"Email", c.Client.Email})
	}
	if c.Client.TaxID != "" {
		client = append(client, Row{"ICE", c.Client.TaxID})
	}

	details := []Row{
		{"Facture N°", orDash(c.Number)},
		{"Date", dateOrDash(&c.IssuedAt)},
	}
	if c.BookingReference != "" {
		details = append(details, Row{"Réservation", c.BookingReference})
	}

	doc := &Document{
		Template:  TemplateInvoice,
		Title:     "FACTURE",
		Reference: c.Number,
		Issuer:    r.issuer(),
		Blocks: []Block{
			{Heading: "Facture", Rows: details},
			{Heading: "Facturé à", Rows: client},
			{Heading: "Détail", Table: table},
		},
		Totals: []Row{
			{"Total HT", money(b.HT, currency)},
			{"TVA 20%", money(b.TVA, currency)},
			{"Total TTC", money(b.TTC, currency)},
		},
		AmountInWords: "Arrêtée la présente facture à la somme de : " + AmountInWords(b.TTC, r.locale, currency),
		GeneratedAt:   c.GeneratedAt,
	}
	if c.Notes != "" {
		doc.Footer = append(doc.Footer, c.Notes)
	}
	return doc
}

func (r *Renderer) composeVoucher(c *VoucherContext) *Document {
	currency := r.currencyOr(c.Currency)

	stars := Placeholder
	if c.HotelStars > 0 {
		stars = strings.Repeat("*", c.HotelStars)
	}

	blocks := []Block{
		{Heading: "Voucher", Rows: []Row{
			{"Voucher N°", orDash(c.VoucherNumber)},
			{"Réservation", orDash(c.BookingReference)},
			{"Statut", orDash(c.Status)},
			{"Émis le", dateOrDash(&c.IssuedAt)},
		}},
		{Heading: "Client", Rows: []Row{
			{"Nom", orDash(c.GuestName)},
			{"Email", orDash(c.GuestEmail)},
			{"Téléphone", orDash(c.GuestPhone)},
			{"Événement", orDash(c.EventName)},
		}},
		{Heading: "Hébergement", Rows: []Row{
			{"Hôtel", orDash(c.HotelName)},
			{"Catégorie", stars},
			{"Adresse", orDash(joinNonEmpty(", ", c.HotelAddress, c.HotelCity))},
			{"Téléphone", orDash(c.HotelPhone)},
			{"Forfait", orDash(c.PackageName)},
			{"Chambre", orDash(c.RoomType)},
			{"Pension", orDash(c.RateBasis)},
			{"Arrivée", dateOrDash(c.CheckIn)},
			{"Départ", dateOrDash(c.CheckOut)},
		}},
	}

	flights := &Table{
		Columns: []string{"Vol", "Trajet", "Départ", "Classe", "Retour"},
		Widths:  []float64{35, 45, 40, 30, 40},
		Align:   []string{"L", "L", "L", "L", "L"},
	}
	for _, f := range c.Flights {
		ret := Placeholder
		if f.ReturnFlightNumber != "" || f.ReturnDepartureAt != nil {
			ret = orDash(f.ReturnFlightNumber) + " " + dateTimeOrDash(f.ReturnDepartureAt)
		}
		flights.Rows = append(flights.Rows, []string{
			orDash(joinNonEmpty(" ", f.Airline, f.FlightNumber)),
			orDash(f.From) + " - " + orDash(f.To),
			dateTimeOrDash(f.DepartureAt),
			orDash(f.Class),
			ret,
		})
	}
	if len(flights.Rows) == 0 {
		flights.Rows = [][]string{{Placeholder, Placeholder, Placeholder, Placeholder, Placeholder}}
	}
	blocks = append(blocks, Block{Heading: "Vols", Table: flights})

	transfers := &Table{
		Columns: []string{"Type", "Véhicule", "Prise en charge", "Destination", "Date", "Pax"},
		Widths:  []float64{25, 25, 45, 45, 35, 15},
		Align:   []string{"L", "L", "L", "L", "L", "C"},
	}
	for _, t := range c.Transfers {
		pax := Placeholder
		if t.Passengers > 0 {
			pax = strconv.Itoa(t.Passengers)
		}
		transfers.Rows = append(transfers.Rows, []string{
			orDash(t.TripType), orDash(t.Vehicle), orDash(t.Pickup), orDash(t.Dropoff),
			dateTimeOrDash(t.PickupAt), pax,
		})
	}
	if len(transfers.Rows) == 0 {
		transfers.Rows = [][]string{{Placeholder, Placeholder, Placeholder, Placeholder, Placeholder, Placeholder}}
	}
	blocks = append(blocks, Block{Heading: "Transferts", Table: transfers})

	return &Document{
		Template:    TemplateVoucher,
		Title:       "VOUCHER DE CONFIRMATION",
		Reference:   c.VoucherNumber,
		Issuer:      r.issuer(),
		Blocks:      blocks,
		Totals:      []Row{{"Montant TTC", money(c.Price, currency)}},
		Footer:      []string{"Merci de présenter ce voucher à la réception de l'hôtel."},
		GeneratedAt: c.GeneratedAt,
	}
}

func (r *Renderer) composeCredentials(c *CredentialsContext) *Document {
	return &Document{
		Template:  TemplateOrganizerCredentials,
		Title:     "IDENTIFIANTS ORGANISATEUR",
		Reference: c.Email,
		Issuer:    r.issuer(),
		Blocks: []Block{{Heading: "Accès", Rows: []Row{
			{"Nom", orDash(c.Name)},
			{"Email", orDash(c.Email)},
			{"Mot de passe", orDash(c.Password)},
			{"Rôle", orDash(c.Role)},
			{"Connexion", orDash(c.LoginURL)},
		}}},
		Footer:      []string{"Changez ce mot de passe dès votre première connexion."},
		GeneratedAt: c.GeneratedAt,
	}
}

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func dateOrDash(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format("02/01/2006")
}

func dateTimeOrDash(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format("02/01/2006 15:04")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
