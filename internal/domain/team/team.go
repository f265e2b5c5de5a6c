package team

// Record is one row of the internal account-team directory: one person
// holding one role code. A role code may be held by several people (analyst
// codes in particular map to more than one person).
type Record struct {
	RoleCode  string
	FirstName string
	LastName  string
	Email     string
}

// RoleCodes gives the manager and analyst role codes associated with a
// business-unit (director) code. An empty string means the unit has no
// position for that role.
type RoleCodes struct {
	Manager string
	Analyst string
}

// unitMapping maps each recognized business-unit code to the role codes of
// its manager and analyst positions. D22 has no analyst position and D99 no
// manager position.
var unitMapping = map[string]RoleCodes{
	"D10": {"B10", "M10"}, "D11": {"B11", "M11"},
	"D12": {"B12", "M12"}, "D14": {"B14", "M14"},
	"D15": {"B15", "M15"}, "D16": {"B16", "M16"},
	"D17": {"B17", "M17"}, "D18": {"B18", "M18"},
	"D20": {"B20", "M20"}, "D21": {"B21", "M21"},
	"D22": {"B22", ""}, "D99": {"", "M99"},
}

// unitNames maps business-unit codes to their human-readable product line,
// used in the notification signature.
var unitNames = map[string]string{
	"D10": "Braking", "D11": "Steering",
	"D12": "Electrical", "D14": "Filtration",
	"D15": "Lighting", "D16": "Engine Management",
	"D17": "Drivetrain", "D18": "Cooling",
	"D20": "Chassis", "D21": "Exhaust",
	"D22": "Accessories", "D99": "General Merchandise",
}

// UnitName returns the product-line name for a business-unit code, or the
// code itself when the unit is not recognized.
func UnitName(unit string) string {
	if n, ok := unitNames[unit]; ok {
		return n
	}
	return unit
}

// Directory is the in-memory role-code lookup built from the directory
// table. People are kept in source order per role code.
type Directory struct {
	byCode map[string][]Record
}

// NewDirectory indexes directory records by role code, dropping rows with a
// missing name or email.
func NewDirectory(records []Record) *Directory {
	d := &Directory{byCode: make(map[string][]Record)}
	for _, r := range records {
		if r.RoleCode == "" || r.Email == "" || (r.FirstName == "" && r.LastName == "") {
			continue
		}
		d.byCode[r.RoleCode] = append(d.byCode[r.RoleCode], r)
	}
	return d
}

// Lookup returns every person holding the given role code, in source order.
func (d *Directory) Lookup(code string) []Record {
	if code == "" {
		return nil
	}
	return d.byCode[code]
}

// Roles resolves a business-unit code to its manager and analyst role codes.
// The second return is false when the unit code is not recognized.
func Roles(unit string) (RoleCodes, bool) {
	rc, ok := unitMapping[unit]
	return rc, ok
}
