package mail

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/marinesurvey/inspector/internal/server/models"
)

var quotationTemplate = template.Must(template.New("quotation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>New inspection quotation request</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Ship type</strong></td><td>{{.ShipType}}</td></tr>
    <tr><td><strong>Service type</strong></td><td>{{.ServiceType}}</td></tr>
    <tr><td><strong>Port / country</strong></td><td>{{.PortCountry}}</td></tr>
    <tr><td><strong>Inspection date</strong></td><td>{{.InspectionDate}}</td></tr>
  </table>
</body>
</html>
`))

// RenderQuotation returns the subject and HTML body of a quotation e-mail.
// Field values are HTML-escaped.
func RenderQuotation(q models.QuotationRequest) (string, string, error) {
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, q); err != nil {
		return "", "", err
	}
	subject := oneLine.Replace("Quotation request: " + q.ShipType + " / " + q.ServiceType)
	return subject, buf.String(), nil
}

var oneLine = strings.NewReplacer("\r", " ", "\n", " ")
