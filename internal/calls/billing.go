package calls

// billingIncrementSeconds is the billing unit; calls are billed in 30-second
// increments with a 30-second floor.
const billingIncrementSeconds int64 = 30

// BillableSeconds rounds a call duration up to the nearest billing increment.
// Missing, zero, and negative durations bill the minimum unit.
func BillableSeconds(seconds *int64) int64 {
	if seconds == nil || *seconds <= 0 {
		return billingIncrementSeconds
	}
	increments := (*seconds + billingIncrementSeconds - 1) / billingIncrementSeconds
	return increments * billingIncrementSeconds
}
