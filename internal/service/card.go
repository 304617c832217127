package service

import "meal-labels/internal/domain"

// BuildCard lays out one label. Values are used as given; escaping is left
// to the renderer.
func BuildCard(rec domain.LabelRecord) domain.Card {
	lines := make([]domain.CardLine, 0, 10)
	lines = append(lines, domain.CardLine{Label: "Product", Value: rec.Product.String() + " " + rec.Variant.String()})
	if rec.Modifiers.Truthy() {
		lines = append(lines, domain.CardLine{Label: "Modifiers", Value: rec.Modifiers.String()})
	}
	lines = append(lines,
		domain.CardLine{Label: "Price", Value: "$" + rec.Price.String()},
		domain.CardLine{Label: "Expiry Date", Value: rec.ExpiryDate.String()},
		domain.CardLine{Label: "Calories", Value: rec.Calories.String()},
		domain.CardLine{Label: "Protein", Value: rec.Protein.String() + "g"},
		domain.CardLine{Label: "Carbs", Value: rec.Carbs.String() + "g"},
		domain.CardLine{Label: "Fat", Value: rec.Fat.String() + "g"},
		domain.CardLine{Label: "Preparation", Value: rec.Preparation.String()},
	)

	return domain.Card{
		Heading: rec.CustomerFirstName.String() + " " + rec.CustomerLastName.String(),
		Lines:   lines,
	}
}
