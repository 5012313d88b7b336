package card

// containsCard 工具：判断牌是否在切片里
func containsCard(cards []Card, c Card) bool {
	for _, cc := range cards {
		if cc == c {
			return true
		}
	}
	return false
}
