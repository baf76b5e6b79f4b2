package entity

// TherapistFilter is a domain-level filter for the public therapist search.
// Used by repository layer to avoid coupling with delivery DTOs.
type TherapistFilter struct {
	Specialization string // Filter by specialization (ILIKE)
	City           string // Filter by clinic city (ILIKE)
	Name           string // Filter by therapist name (ILIKE)
}
