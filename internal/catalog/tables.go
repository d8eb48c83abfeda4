package catalog

// Entry describes one deprecated table and the objects that replace it.
type Entry struct {
	// Name is the deprecated table name in canonical uppercase form.
	Name string
	// Replacement lists the object or objects to use instead.
	Replacement string
	// Note optionally explains what happened to the table in S/4HANA.
	Note string
}

// Group is an ordered set of entries sharing one migration category.
type Group struct {
	Name    string
	Entries []Entry
}

// Groups returns the reference table groups in merge order. Later groups
// take precedence over earlier ones, although the groups are expected to
// stay disjoint.
func Groups() []Group {
	return []Group{
		{Name: "core-document", Entries: coreDocumentTables},
		{Name: "hybrid", Entries: hybridTables},
		{Name: "aggregation", Entries: aggregationTables},
		{Name: "split-hybrid", Entries: splitHybridTables},
		{Name: "history", Entries: historyTables},
	}
}

// Core document tables. Header and item data merged into MATDOC.
var coreDocumentTables = []Entry{
	{
		Name:        "MKPF",
		Replacement: "MATDOC",
		Note:        "Header data no longer stored separately. Still exists as DDIC object, but only read via CDS view NSDM_DDL_MKPF.",
	},
	{
		Name:        "MSEG",
		Replacement: "MATDOC",
		Note:        "Item + header + attributes merged. Proxy CDS: NSDM_DDL_MSEG.",
	},
}

// Hybrid tables carrying master data and quantities.
var hybridTables = []Entry{
	{Name: "MARC", Replacement: "NSDM_DDL_MARC / NSDM_MIG_MARC / V_MARC_MD", Note: "Plant Data for Material now redirected to CDS views."},
	{Name: "MARD", Replacement: "NSDM_DDL_MARD / NSDM_MIG_MARD / V_MARD_MD", Note: "Storage location data no longer persisted."},
	{Name: "MCHB", Replacement: "NSDM_DDL_MCHB / NSDM_MIG_MCHB / V_MCHB_MD", Note: "Batch stock quantities derived from MATDOC."},
	{Name: "MKOL", Replacement: "NSDM_DDL_MKOL / NSDM_MIG_MKOL / V_MKOL_MD", Note: "Special stocks from vendor redirected."},
	{Name: "MSLB", Replacement: "NSDM_DDL_MSLB / NSDM_MIG_MSLB / V_MSLB_MD", Note: "Special stocks with vendor derived from MATDOC."},
	{Name: "MSKA", Replacement: "NSDM_DDL_MSKA / NSDM_MIG_MSKA / V_MSKA_MD", Note: "Sales order stock redirected."},
	{Name: "MSPR", Replacement: "NSDM_DDL_MSPR / NSDM_MIG_MSPR / V_MSPR_MD", Note: "Project stock aggregated on the fly."},
	{Name: "MSKU", Replacement: "NSDM_DDL_MSKU / NSDM_MIG_MSKU / V_MSKU_MD", Note: "Special stocks with customer from MATDOC."},
}

// Replaced aggregation tables.
var aggregationTables = []Entry{
	{Name: "MSSA", Replacement: "NSDM_DDL_MSSA", Note: "Customer order totals replaced by CDS view."},
	{Name: "MSSL", Replacement: "NSDM_DDL_MSSL", Note: "Special stocks with vendor totals replaced by CDS view."},
	{Name: "MSSQ", Replacement: "NSDM_DDL_MSSQ", Note: "Project stock totals replaced by CDS view."},
	{Name: "MSTB", Replacement: "NSDM_DDL_MSTB", Note: "Stock in transit replaced by CDS view."},
	{Name: "MSTE", Replacement: "NSDM_DDL_MSTE", Note: "Stock in transit (SD Doc) replaced by CDS view."},
	{Name: "MSTQ", Replacement: "NSDM_DDL_MSTQ", Note: "Stock in transit for project replaced by CDS view."},
}

// DIMP split hybrid tables. Stock part moved to MATDOC, master data kept in *_MD.
var splitHybridTables = []Entry{
	{Name: "MCSD", Replacement: "NSDM_DDL_MCSD / MCSD_MD", Note: "Customer Stock split: stock → MATDOC, master → MCSD_MD."},
	{Name: "MCSS", Replacement: "NSDM_DDL_MCSS / MCSS_MD", Note: "Customer Stock Total split: stock → MATDOC, master → MCSS_MD."},
	{Name: "MSCD", Replacement: "NSDM_DDL_MSCD / MSCD_MD", Note: "Customer Stock with Vendor split into MATDOC + MSCD_MD."},
	{Name: "MSCS", Replacement: "NSDM_DDL_MSCS / MSCS_MD", Note: "Cust. Stock with Vendor Total split into MATDOC + MSCS_MD."},
	{Name: "MSFD", Replacement: "NSDM_DDL_MSFD / MSFD_MD", Note: "Sales Order Stock with Vendor split into MATDOC + MSFD_MD."},
	{Name: "MSFS", Replacement: "NSDM_DDL_MSFS / MSFS_MD", Note: "Sales Order Stock with Vendor Total split into MATDOC + MSFS_MD."},
	{Name: "MSID", Replacement: "NSDM_DDL_MSID / MSID_MD", Note: "Vendor Stock split into MATDOC + MSID_MD."},
	{Name: "MSIS", Replacement: "NSDM_DDL_MSIS / MSIS_MD", Note: "Vendor Stock Total split into MATDOC + MSIS_MD."},
	{Name: "MSRD", Replacement: "NSDM_DDL_MSRD / MSRD_MD", Note: "Project Stock with Vendor split into MATDOC + MSRD_MD."},
	{Name: "MSRS", Replacement: "NSDM_DDL_MSRS / MSRS_MD", Note: "Project Stock with Vendor Total split into MATDOC + MSRS_MD."},
}

// History tables, all redirected to CDS views.
var historyTables = []Entry{
	{Name: "MARCH", Replacement: "NSDM_DDL_MARCH", Note: "MARC History redirected to CDS."},
	{Name: "MARDH", Replacement: "NSDM_DDL_MARDH", Note: "MARD History redirected to CDS."},
	{Name: "MCHBH", Replacement: "NSDM_DDL_MCHBH", Note: "MCHB History redirected to CDS."},
	{Name: "MKOLH", Replacement: "NSDM_DDL_MKOLH", Note: "MKOL History redirected to CDS."},
	{Name: "MSLBH", Replacement: "NSDM_DDL_MSLBH", Note: "MSLB History redirected to CDS."},
	{Name: "MSKAH", Replacement: "NSDM_DDL_MSKAH", Note: "MSKA History redirected to CDS."},
	{Name: "MSSAH", Replacement: "NSDM_DDL_MSSAH", Note: "MSSA History redirected to CDS."},
	{Name: "MSPRH", Replacement: "NSDM_DDL_MSPRH", Note: "MSPR History redirected to CDS."},
	{Name: "MSSQH", Replacement: "NSDM_DDL_MSSQH", Note: "MSSQ History redirected to CDS."},
	{Name: "MSKUH", Replacement: "NSDM_DDL_MSKUH", Note: "MSKU History redirected to CDS."},
	{Name: "MSTBH", Replacement: "NSDM_DDL_MSTBH", Note: "MSTB History redirected to CDS."},
	{Name: "MSTEH", Replacement: "NSDM_DDL_MSTEH", Note: "MSTE History redirected to CDS."},
	{Name: "MSTQH", Replacement: "NSDM_DDL_MSTQH", Note: "MSTQ History redirected to CDS."},
	{Name: "MCSDH", Replacement: "NSDM_DDL_MCSDH", Note: "MCSD History redirected to CDS."},
	{Name: "MCSSH", Replacement: "NSDM_DDL_MCSSH", Note: "MCSS History redirected to CDS."},
	{Name: "MSCDH", Replacement: "NSDM_DDL_MSCDH", Note: "MSCD History redirected to CDS."},
	{Name: "MSFDH", Replacement: "NSDM_DDL_MSFDH", Note: "MSFD History redirected to CDS."},
	{Name: "MSIDH", Replacement: "NSDM_DDL_MSIDH", Note: "MSID History redirected to CDS."},
	{Name: "MSRDH", Replacement: "NSDM_DDL_MSRDH", Note: "MSRD History redirected to CDS."},
}
