package vaccines

// WindowStatus clasifica una dosis agendada respecto de "ahora".
type WindowStatus string

const (
	StatusOverdue        WindowStatus = "overdue"
	StatusNeedsAttention WindowStatus = "needsAttention"
	StatusUpcoming       WindowStatus = "upcoming"
	StatusCurrent        WindowStatus = "current"
	StatusUnknown        WindowStatus = "unknown"
)

// AllStatuses devuelve los cinco estados en orden estable
// (el orden importa para iterar buckets de forma determinista).
func AllStatuses() []WindowStatus {
	return []WindowStatus{
		StatusOverdue,
		StatusNeedsAttention,
		StatusUpcoming,
		StatusCurrent,
		StatusUnknown,
	}
}

// Family agrupa productos de vacuna por nombre.
type Family string

const (
	FamilyRabies     Family = "rabies"
	FamilyDHPP       Family = "dhpp_dapp"
	FamilyBordetella Family = "bordetella"
	FamilyOther      Family = "other"
)

// CoreFamilies son las familias que el reporte resume una por una.
// FamilyOther se muestra aparte, sin rollup.
func CoreFamilies() []Family {
	return []Family{FamilyRabies, FamilyDHPP, FamilyBordetella}
}
