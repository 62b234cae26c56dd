// Package availability tracks per-courier online/busy state and last known
// position. Matching consults these records to exclude occupied couriers;
// delivery lifecycle actions drive the busy/released transitions.
package availability
