package app

import (
	"fmt"
	"strings"

	"compliance_notifier/internal/domain/email"
	"compliance_notifier/internal/domain/team"
	"compliance_notifier/internal/domain/vendor"
)

const subjectTemplate = "Retail Packaging Requirements for Compliance with the Charter of French Language - %s %s - %s"

// bodyTemplate is the legal notice sent to every vendor. Interpolations:
// analyst signature names, product line, analyst signature addresses.
const bodyTemplate = `Good afternoon,<br><br>
You were recently notified with the below details about updated Aftermarket Packaging
Guidelines related to retail packaging requirements.<br><br>
<b><u>Your compliance with the Charter of French Language requires your immediate attention,
as this is a legal requirement to do business in Quebec. These requirements include
translating both the label and instructions/pamphlets inside of the box into French.</u></b><br>
We are committed to complying with Quebec's legal requirements and expect
all our supplier partners to do the same.<br><br>
The pertinent information for the retail packaging compliance requirements is located
online. A PDF copy is attached.<br><br>
*As an additional reminder, the Packaging Guidelines state that both the
label and instructions/pamphlets inside of the box need to include English, French
and Spanish translations.<br><br>
Our distribution centers are infracting suppliers not in compliance with these
requirements. Infractions are debited following the normal infraction process according
to the published supplier guidelines.<br><br>
Please let me know if you have any questions. Thank you for your continued support.<br>
<b><font color='#767171'>%s - Product Analyst - %s | Email: </font><font color='#0563C1'><u>%s</u></font></b>`

// Composer renders admitted vendors into dispatchable messages.
type Composer struct {
	attachmentPath string
	senderDomain   string
}

func NewComposer(attachmentPath, senderDomain string) *Composer {
	return &Composer{attachmentPath: attachmentPath, senderDomain: senderDomain}
}

// Compose builds the notification for a vendor that passed admission. To is
// the vendor contact list, Cc the full account team, both in resolver order.
func (c *Composer) Compose(v *vendor.Vendor) (email.Message, error) {
	if len(v.VendorContacts) == 0 {
		return email.Message{}, fmt.Errorf("vendor %s has no contacts to address", v.ID)
	}

	analysts := v.Analysts()
	return email.Message{
		To:      v.ToAddresses(),
		Cc:      v.CcAddresses(),
		Subject: fmt.Sprintf(subjectTemplate, v.Name, v.ID, v.Compliance.BusinessUnit),
		HTMLBody: fmt.Sprintf(bodyTemplate,
			AnalystNameLine(analysts),
			team.UnitName(v.Compliance.BusinessUnit),
			c.analystAddressLine(analysts)),
		AttachmentPath: c.attachmentPath,
	}, nil
}

// AnalystNameLine joins the analysts' display names with " & " for the
// signature line.
func AnalystNameLine(analysts []vendor.Contact) string {
	names := make([]string, 0, len(analysts))
	for _, a := range analysts {
		names = append(names, strings.TrimSpace(a.First+" "+a.Last))
	}
	return strings.Join(names, " & ")
}

// analystAddressLine renders the signature addresses. These are synthesized
// first.last@domain strings for display only; delivery uses the Cc list.
func (c *Composer) analystAddressLine(analysts []vendor.Contact) string {
	addrs := make([]string, 0, len(analysts))
	for _, a := range analysts {
		if a.First == "" && a.Last == "" {
			addrs = append(addrs, a.Email)
			continue
		}
		addrs = append(addrs, fmt.Sprintf("%s.%s@%s", a.First, a.Last, c.senderDomain))
	}
	return strings.Join(addrs, " & ")
}
