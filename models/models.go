package models

// Database schema overview:
// 1. users - staff and portal accounts, soft-deleted
// 2. clients - hiring companies, optionally linked to a client user
// 3. partners - sourcing organisations with derived placement counters
// 4. candidates - people in the pipeline; status is projected from applications
// 5. job_positions - openings owned by a client, with a live applications_count
// 6. applications - one per (candidate, job position); stage timestamps and durations
// 7. interviews - scheduled against an application, completion stamped once
// 8. activities - append-only audit trail of every workflow mutation

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&Partner{},
		&Candidate{},
		&JobPosition{},
		&Application{},
		&Interview{},
		&Activity{},
	}
}
