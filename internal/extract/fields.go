// Package extract turns scrape job results into flat contact records.
package extract

// Field describes one scraped contact attribute: the element name sent to the
// job API, the XPath it is read from, and the placeholder used when the page
// yields nothing.
type Field struct {
	Name    string
	XPath   string
	Default string
	set     func(*Contact, string)
}

// Contact is the record written to the output file for each processed URL.
type Contact struct {
	BusinessName   string `json:"business_name"`
	Employees      string `json:"employees"`
	Address        string `json:"address"`
	ContactName    string `json:"contact_name"`
	ContactPhone   string `json:"contact_phone"`
	ContactEmail   string `json:"contact_email"`
	ContactWebsite string `json:"contact_website"`
}

// Element names as the job API knows them. The spellings are part of the API
// contract and must not be corrected.
const (
	FieldBusinessName   = "BuisnessName"
	FieldEmployees      = "employes"
	FieldAddress        = "Address"
	FieldContactName    = "Contact_Name"
	FieldContactPhone   = "Contact_phone"
	FieldContactEmail   = "Contact_email"
	FieldContactWebsite = "Contact_Website"
)

// Fields lists every extractor in submission order.
var Fields = []Field{
	{
		Name:    FieldBusinessName,
		XPath:   `//*[@id="wp--skip-link--target"]/div[1]/div/h1`,
		Default: "No Business Name available",
		set:     func(c *Contact, v string) { c.BusinessName = v },
	},
	{
		Name:    FieldEmployees,
		XPath:   `//*[@id="wp--skip-link--target"]/div[1]/div/div/div[1]`,
		Default: "No Employees available",
		set:     func(c *Contact, v string) { c.Employees = v },
	},
	{
		Name:    FieldAddress,
		XPath:   `//*[@id="wp--skip-link--target"]/div[2]/div[3]/div[1]/div`,
		Default: "No address available",
		set:     func(c *Contact, v string) { c.Address = v },
	},
	{
		Name:    FieldContactName,
		XPath:   `//*[@id="wp--skip-link--target"]/div[2]/div[3]/div[2]/div/p`,
		Default: "No contact name available",
		set:     func(c *Contact, v string) { c.ContactName = v },
	},
	{
		Name:    FieldContactPhone,
		XPath:   `//*[@id="wp--skip-link--target"]/div[2]/div[3]/div[2]/div/div[1]/p`,
		Default: "No contact phone available",
		set:     func(c *Contact, v string) { c.ContactPhone = v },
	},
	{
		Name:    FieldContactEmail,
		XPath:   `//*[@id="wp--skip-link--target"]/div[2]/div[3]/div[2]/div/div[2]/p/span`,
		Default: "No contact email available",
		set:     func(c *Contact, v string) { c.ContactEmail = v },
	},
	{
		Name:    FieldContactWebsite,
		XPath:   `//*[@id="wp--skip-link--target"]/div[2]/div[3]/div[2]/div/div[3]/p`,
		Default: "No contact website available",
		set:     func(c *Contact, v string) { c.ContactWebsite = v },
	},
}

// DefaultContact returns a record with every field at its placeholder.
func DefaultContact() Contact {
	var c Contact
	for _, f := range Fields {
		f.set(&c, f.Default)
	}
	return c
}
