package fetch

import (
	"net/url"
	"strings"
)

// Item is one downloadable source file and where it lands in the input
// tree: <root>/<Service>/<Category>/<Filename> (Category may be empty for
// the summary files).
type Item struct {
	URL      string
	Service  string
	Category string
	Filename string
}

// RelPath is the item's slash-separated path under the input root.
func (it Item) RelPath() string {
	segs := []string{it.Service}
	if it.Category != "" {
		segs = append(segs, safeFilename(it.Category))
	}
	segs = append(segs, safeFilename(it.Filename))
	return strings.Join(segs, "/")
}

// safeFilename strips characters that are illegal in file or folder names
// on most operating systems.
func safeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

const (
	armyBase = "https://www.asafm.army.mil/Portals/72/Documents/BudgetMaterial/2026/Discretionary%20Budget"
	afBase   = "https://www.saffm.hq.af.mil/Portals/84/documents/FY26"
	dwBase   = "https://comptroller.war.gov/Portals/45/Documents/defbudget/FY2026/budget_justification/pdfs"
	dodBase  = "https://comptroller.war.gov/Portals/45/Documents/defbudget/FY2026"
)

type namedFile struct {
	category string
	name     string
	ext      string
}

// Navy publishes PDF only and has no machine-readable files to fetch.
var armyFiles = []namedFile{
	{"Military Personnel", "Military Personnel Army Volume 1", "xml"},
	{"Military Personnel", "Reserve Personnel Army Volume 1", "xml"},
	{"Military Personnel", "National Guard Personnel Army Volume 1", "xml"},

	{"Operation and Maintenance", "Regular Army Operation and Maintenance Volume 1", "json"},
	{"Operation and Maintenance", "Regular Army Operation and Maintenance Volume 2", "json"},
	{"Operation and Maintenance", "Reserve Army Operation and Maintenance Overview", "xml"},
	{"Operation and Maintenance", "Reserve Army Operation and Maintenance", "xml"},
	{"Operation and Maintenance", "National Guard Army Operation and Maintenance Overview", "xml"},
	{"Operation and Maintenance", "National Guard Army Operation and Maintenance", "xml"},

	{"Procurement", "Aircraft Procurement Army", "xml"},
	{"Procurement", "Missile Procurement Army", "xml"},
	{"Procurement", "Other Procurement - BA1 - Tactical & Support Vehicles", "xml"},
	{"Procurement", "Other Procurement - BA2 - Communications & Electronics", "xml"},
	{"Procurement", "Other Procurement - BA 3, 4 & 6 - Other Support Equipment, Initial Spares and Agile Portfolio Management", "xml"},
	{"Procurement", "Procurement of Ammunition", "xml"},
	{"Procurement", "Procurement of Weapons and Tracked Combat Vehicles", "xml"},

	{"rdte", "RDTE - Vol 1 - Budget Activity 1", "xml"},
	{"rdte", "RDTE - Vol 1 - Budget Activity 2", "xml"},
	{"rdte", "RDTE - Vol 1 - Budget Activity 3", "xml"},
	{"rdte", "RDTE - Vol 2 - Budget Activity 4A", "xml"},
	{"rdte", "RDTE - Vol 2 - Budget Activity 4B", "xml"},
	{"rdte", "RDTE - Vol 3 - Budget Activity 5A", "xml"},
	{"rdte", "RDTE - Vol 3 - Budget Activity 5B", "xml"},
	{"rdte", "RDTE - Vol 3 - Budget Activity 5C", "xml"},
	{"rdte", "RDTE - Vol 3 - Budget Activity 5D", "xml"},
	{"rdte", "RDTE - Vol 4 - Budget Activity 6", "xml"},
	{"rdte", "RDTE - Vol 4 - Budget Activity 7", "xml"},
	{"rdte", "RDTE - Vol 4 - Budget Activity 8", "xml"},
	{"rdte", "RDTE - Vol 4 - Budget Activity 9", "xml"},

	{"Military Construction", "Regular Army Military Construction, Army Family Housing and Homeowners Assistance", "xml"},
	{"Military Construction", "Reserve Army Military Construction", "xml"},
	{"Military Construction", "National Guard Army Military Construction", "xml"},
	{"Military Construction", "Base Realignment and Closure Account", "xml"},

	{"awcf", "Army Working Capital Fund", "xml"},
	{"camdd", "Chemical Agents and Munitions Destruction, Defense", "xml"},
	{"U.S. Army Cemeterial Expenses and Construction", "U.S. Army Cemeterial Expenses and Construction", "xml"},
	{"Other Funds", "Counter-Islamic State of Iraq and Syria Train and Equip Fund", "xml"},
}

var afFiles = []namedFile{
	{"BRAC", "FY26 Base Realignment and Closure", "xml"},

	{"MILCON", "FY26 Air Force MILCON", "xml"},
	{"MILCON", "FY26 Air National Guard MILCON", "xml"},
	{"MILCON", "FY26 Air Force Reserve MILCON", "xml"},

	{"MILPERS", "FY26 Air Force MILPERS", "xml"},
	{"MILPERS", "FY26 Air National Guard MILPERS", "xml"},
	{"MILPERS", "FY26 Air Force Reserves MILPERS", "xml"},
	{"MILPERS", "FY26 Space Force MILPERS", "xml"},

	{"O&M", "FY26 Air Force Operations and Maintenance Vol I", "xml"},
	{"O&M", "FY26 Air Force Operations and Maintenance Vol II", "xml"},
	{"O&M", "FY26 Air National Guard Operation and Maintenance Vol I", "xml"},
	{"O&M", "FY26 Air National Guard Operation and Maintenance Vol II", "xml"},
	{"O&M", "FY26 Air Force Reserve Operations and Maintenance Vol I", "xml"},
	{"O&M", "FY26 Air Force Reserve Operations and Maintenance Vol II", "xml"},
	{"O&M", "FY26 Space Force Operations and Maintenance Vol I", "xml"},
	{"O&M", "FY26 Space Force Operations and Maintenance Vol II", "xml"},

	{"Procurement", "FY26 Air Force Aircraft Procurement Vol I", "xml"},
	{"Procurement", "FY26 Air Force Aircraft Procurement Vol II", "xml"},
	{"Procurement", "FY26 Air Force Ammunition Procurement", "xml"},
	{"Procurement", "FY26 Air Force Missile Procurement", "xml"},
	{"Procurement", "FY26 Air Force Other Procurement", "xml"},
	{"Procurement", "FY26 Space Force Procurement", "xml"},

	{"RDTE", "FY26 Air Force Research and Development Test and Evaluation Vol I", "xml"},
	{"RDTE", "FY26 Air Force Research and Development Test and Evaluation Vol II", "xml"},
	{"RDTE", "FY26 Air Force Research and Development Test and Evaluation Vol III", "xml"},
	{"RDTE", "FY26 Space Force Research and Development Test and Evaluation Vol I", "xml"},
	{"RDTE", "FY26 Space Force Research and Development Test and Evaluation Vol II", "xml"},
}

type dwFile struct {
	category string
	path     string
	name     string
	ext      string
}

var dwFiles = []dwFile{
	{"O&M", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "OM_Volume1_Part1", "json"},
	{"O&M", "01_Operation_and_Maintenance/O_M_VOL_1_PART_2", "OM_Volume1_Part_2", "json"},
	{"O&M", "01_Operation_and_Maintenance/O_M_VOL_2", "Volume_2", "json"},

	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "Overview_(Part_1)", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "Summary_by_Agency_(Part_1)", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "O-1_Summary_(Part_1)", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "OP-32A_Summary_(Part_1)", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "CMP_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "CYBERCOM_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "CYBERCOM_Headquarters_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "Cyberspace_Operations_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DAU_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCAA_Cyber_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCAA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCMA_Cyber_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCMA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCSA_Cyber_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DCSA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DHRA_Cyber_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DHRA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DISA_Cyber_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DISA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DLA_OP-5", "json"},
	{"O&M_Agencies", "01_Operation_and_Maintenance/O_M_VOL_1_PART_1", "DLSA_OP-5", "json"},

	{"BRAC", "05_BRAC", "FY2026_BRAC_Overview", "xml"},
}

type summaryFile struct {
	url      string
	filename string
}

var dodSummaryFiles = []summaryFile{
	{dodBase + "/m1_display.xlsx", "FY2026_M1_Military_Personnel.xlsx"},
	{dodBase + "/o1_display.xlsx", "FY2026_O1_Operation_Maintenance.xlsx"},
	{dodBase + "/rf1_display.xlsx", "FY2026_RF1_Revolving_Management_Fund.xlsx"},
	{dodBase + "/p1_display.xlsx", "FY2026_P1_Procurement.xlsx"},
	{dodBase + "/p1r_display.xlsx", "FY2026_P1R_Procurement_Reserve.xlsx"},
	{dodBase + "/r1_display.xlsx", "FY2026_R1_RDTE.xlsx"},
	{dodBase + "/c1.xlsx", "FY2026_C1_MilCon_FamilyHousing_BRAC.xlsx"},
	{dodBase + "/FY2026_Pacific_Deterrence_Initiative.json", "FY2026_Pacific_Deterrence_Initiative.json"},
	{dodBase + "/FY2026_Drug_Interdiction_and_Counter-Drug_Activities.json", "FY2026_Drug_Interdiction_Counter_Drug.json"},
}

// Manifest lists every published FY2026 machine-readable file with its
// source URL and target location in the input tree.
func Manifest() []Item {
	var items []Item
	for _, f := range armyFiles {
		items = append(items, Item{
			URL:      armyBase + "/" + escapePath(f.category+"/"+f.name+"."+f.ext),
			Service:  "Army",
			Category: f.category,
			Filename: f.name + "." + f.ext,
		})
	}
	for _, f := range afFiles {
		items = append(items, Item{
			URL:      afBase + "/" + escapePath(f.name+"."+f.ext),
			Service:  "AirForce",
			Category: f.category,
			Filename: f.name + "." + f.ext,
		})
	}
	for _, f := range dwFiles {
		items = append(items, Item{
			URL:      dwBase + "/" + f.path + "/" + escapePath(f.name+"."+f.ext),
			Service:  "DefenseWide",
			Category: f.category,
			Filename: f.name + "." + f.ext,
		})
	}
	for _, f := range dodSummaryFiles {
		items = append(items, Item{
			URL:      f.url,
			Service:  "DoD_Summary",
			Filename: f.filename,
		})
	}
	return items
}

// escapePath percent-encodes each segment of a URL path, keeping the
// separators.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
