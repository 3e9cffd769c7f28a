package vaccines

import "strings"

// FamilyRule asocia una familia con sus substrings de producto.
// Matching case-insensitive, por contención.
type FamilyRule struct {
	Family   Family
	Keywords []string
}

// DefaultFamilyRules devuelve las reglas curadas, en orden de prioridad.
// El orden importa: un nombre de producto puede contener substrings de más
// de una familia, y gana la primera regla que matchee. El catálogo del
// refugio no es un conjunto cerrado, así que lo no reconocido cae en
// FamilyOther sin error.
func DefaultFamilyRules() []FamilyRule {
	return []FamilyRule{
		{Family: FamilyRabies, Keywords: []string{"rabies", "rabvac"}},
		{Family: FamilyDHPP, Keywords: []string{
			"dhpp", "dapp", "da2pp", "da2ppv", "dappv",
			"vanguard dapp", "nobivac canine 1-dappv",
		}},
		{Family: FamilyBordetella, Keywords: []string{"bordetella", "trucan b"}},
	}
}

// ClassifyFamily mapea un nombre de producto libre a su familia.
// Total y pura: nunca falla; vacío o sin match → FamilyOther.
func ClassifyFamily(product string, rules []FamilyRule) Family {
	p := strings.ToLower(strings.TrimSpace(product))
	if p == "" {
		return FamilyOther
	}

	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(p, kw) {
				return rule.Family
			}
		}
	}
	return FamilyOther
}
