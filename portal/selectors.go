// Package portal knows the PropVivo financial pages: their selectors, the
// wait protocol for the progressively rendered tables, navigation helpers,
// and reporting-period resolution.
package portal

// TableSelector is the structural signature of the main financial table.
const TableSelector = "table.min-w-full.border-collapse"

// TotalsRowSelector matches the bold subtotal/total rows. The table is not
// considered loaded until at least one of these exists: headers render before
// the async aggregation completes, so headers alone are no signal.
const TotalsRowSelector = "table.min-w-full tbody tr.font-semibold"

// Month and year controls above the table. The paths are brittle on purpose:
// they pin the exact controls and fail loudly on a page redesign.
const (
	YearSelector = `#__next > div > div.flex.flex-col.flex-1.h-full.overflow-hidden.rightSideBar > div.content-container > ` +
		`div > div > div.flex.flex-col.md\:flex-row.md\:items-center.justify-between.gap-1.md\:gap-3.text-sm.px-5.py-3.text-gray-o-620.tableTopData.border-b.border-gray-p-350 > ` +
		`div.flex.flex-col.md\:flex-row.items-center.gap-3.md\:gap-4 > div.flex.flex-col.md\:flex-row.items-center.gap-3.w-full.md\:w-auto > div:nth-child(2) > div`

	MonthSelector = `#__next > div > div.flex.flex-col.flex-1.h-full.overflow-hidden.rightSideBar > div.content-container > ` +
		`div > div > div.flex.flex-col.md\:flex-row.md\:items-center.justify-between.gap-1.md\:gap-3.text-sm.px-5.py-3.text-gray-o-620.tableTopData.border-b.border-gray-p-350 > ` +
		`div.flex.flex-col.md\:flex-row.items-center.gap-3.md\:gap-4 > div.flex.flex-col.md\:flex-row.items-center.gap-3.w-full.md\:w-auto > div:nth-child(1) > div > div`
)
