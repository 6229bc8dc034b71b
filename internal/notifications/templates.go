package notifications

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

const layoutHTML = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<p>Bonjour {{.Name}},</p>
{{template "content" .}}
<p>Cordialement,<br>{{.Company}}</p>
</body></html>`

var htmlTemplates = map[NotificationType]string{
	NotificationTypeVoucher: `{{define "content"}}
<p>Votre réservation <strong>{{.Reference}}</strong> est confirmée.</p>
<table cellpadding="4">
<tr><td>Événement</td><td>{{.EventName}}</td></tr>
<tr><td>Hôtel</td><td>{{.HotelName}}</td></tr>
<tr><td>Formule</td><td>{{.PackageName}}</td></tr>
<tr><td>Arrivée</td><td>{{.CheckIn}}</td></tr>
<tr><td>Départ</td><td>{{.CheckOut}}</td></tr>
</table>
<p>Vous trouverez votre voucher en pièce jointe.</p>
{{end}}`,
	NotificationTypeInvoice: `{{define "content"}}
<p>Veuillez trouver ci-joint la facture <strong>{{.Reference}}</strong> d'un montant de {{.Amount}}.</p>
{{end}}`,
	NotificationTypeFlightCredentials: `{{define "content"}}
<p>Votre vol <strong>{{.Reference}}</strong> ({{.Route}}) est enregistré{{if .Departure}}, départ le {{.Departure}}{{end}}.</p>
<p>Vos identifiants de connexion :</p>
<ul>
<li>Email : {{.Email}}</li>
<li>Mot de passe : {{.Password}}</li>
</ul>
<p><a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
{{end}}`,
}

var textTemplates = map[NotificationType]string{
	NotificationTypeVoucher: `Bonjour {{.Name}},

Votre réservation {{.Reference}} est confirmée.
Événement : {{.EventName}}
Hôtel : {{.HotelName}} ({{.PackageName}})
Du {{.CheckIn}} au {{.CheckOut}}

{{.Company}}
`,
	NotificationTypeInvoice: `Bonjour {{.Name}},

Veuillez trouver ci-joint la facture {{.Reference}} d'un montant de {{.Amount}}.

{{.Company}}
`,
	NotificationTypeFlightCredentials: `Bonjour {{.Name}},

Votre vol {{.Reference}} ({{.Route}}) est enregistré.
Email : {{.Email}}
Mot de passe : {{.Password}}
Connexion : {{.LoginURL}}

{{.Company}}
`,
}

// emailData feeds both the HTML and the text template of a notification
type emailData struct {
	Name        string
	Company     string
	Reference   string
	EventName   string
	HotelName   string
	PackageName string
	CheckIn     string
	CheckOut    string
	Amount      string
	Route       string
	Departure   string
	Email       string
	Password    string
	LoginURL    string
}

var (
	compiledHTML = map[NotificationType]*htmltemplate.Template{}
	compiledText = map[NotificationType]*texttemplate.Template{}
)

func init() {
	for kind, content := range htmlTemplates {
		t := htmltemplate.Must(htmltemplate.New(string(kind)).Parse(layoutHTML))
		compiledHTML[kind] = htmltemplate.Must(t.Parse(content))
	}
	for kind, content := range textTemplates {
		compiledText[kind] = texttemplate.Must(texttemplate.New(string(kind)).Parse(content))
	}
}

func renderBodies(kind NotificationType, data emailData) (string, string, error) {
	var html, text bytes.Buffer
	if t, ok := compiledHTML[kind]; ok {
		if err := t.Execute(&html, data); err != nil {
			return "", "", err
		}
	}
	if t, ok := compiledText[kind]; ok {
		if err := t.Execute(&text, data); err != nil {
			return "", "", err
		}
	}
	return html.String(), text.String(), nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
