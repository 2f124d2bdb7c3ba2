package chart

// CountTicks lists y-axis ticks for a chart of n files: n, n/10, n/100, ...
// while the value is at least 10.
func CountTicks(n int) []int {
	var ticks []int
	for i := n; i >= 10; i /= 10 {
		ticks = append(ticks, i)
	}
	return ticks
}
