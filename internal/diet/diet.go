package diet

import "github.com/Skufu/heartcheck/internal/health"

// Section is one titled group of recommendations.
type Section struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Plan is an ordered list of sections.
type Plan struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Valid reports whether the plan has at least one section and no empty section.
func (p Plan) Valid() bool {
	if len(p.Sections) == 0 {
		return false
	}
	for _, s := range p.Sections {
		if s.Name == "" || len(s.Items) == 0 {
			return false
		}
	}
	return true
}

var riskPlan = Plan{
	Title: "Diet Recommendations for Heart Health Improvement",
	Sections: []Section{
		{
			Name: "Foods to Include",
			Items: []string{
				"Leafy greens such as spinach, kale and collard greens",
				"Whole grains like oats, brown rice and quinoa",
				"Fatty fish rich in omega-3s: salmon, mackerel, sardines",
				"Berries, citrus fruits and other fresh fruit",
				"Legumes, beans and lentils",
				"Unsalted nuts and seeds in small portions",
				"Olive oil in place of butter",
			},
		},
		{
			Name: "Foods to Avoid",
			Items: []string{
				"Processed and cured meats",
				"Fried foods and anything with trans fats",
				"High-sodium snacks, canned soups and ready meals",
				"Sugary drinks, pastries and sweets",
				"Full-fat dairy and fatty cuts of red meat",
				"Excessive alcohol",
			},
		},
		{
			Name: "Daily Targets",
			Items: []string{
				"Keep sodium below 1,500 mg per day",
				"Limit saturated fat to under 6% of daily calories",
				"Aim for 25-30 g of fiber per day",
				"Eat at least two servings of fish per week",
			},
		},
		{
			Name: "Lifestyle Tips",
			Items: []string{
				"Follow up with a cardiologist about these results",
				"Walk or do light exercise for 30 minutes most days",
				"Stop smoking and avoid second-hand smoke",
				"Monitor blood pressure and cholesterol regularly",
				"Manage stress with sleep, rest and relaxation",
			},
		},
	},
}

var healthyPlan = Plan{
	Title: "Diet Recommendations for Heart Health Maintenance",
	Sections: []Section{
		{
			Name: "Foods to Include",
			Items: []string{
				"A variety of colorful vegetables and fruits",
				"Whole grains such as whole wheat bread and oats",
				"Lean proteins: poultry, fish, beans and tofu",
				"Healthy fats from avocado, nuts and olive oil",
				"Low-fat dairy or fortified plant alternatives",
			},
		},
		{
			Name: "Foods to Limit",
			Items: []string{
				"Added sugars and sweetened drinks",
				"Highly processed snacks",
				"Salty foods and restaurant meals high in sodium",
				"Red meat to a few servings per week",
			},
		},
		{
			Name: "Lifestyle Tips",
			Items: []string{
				"Stay active for at least 150 minutes per week",
				"Drink plenty of water",
				"Keep a healthy weight",
				"Have a routine health check-up once a year",
			},
		},
	},
}

// Recommend returns the canonical plan for a risk flag. The result is a fresh copy.
func Recommend(risk health.RiskFlag) Plan {
	if risk {
		return riskPlan.clone()
	}
	return healthyPlan.clone()
}

func (p Plan) clone() Plan {
	out := Plan{Title: p.Title, Sections: make([]Section, len(p.Sections))}
	for i, s := range p.Sections {
		out.Sections[i] = Section{Name: s.Name, Items: append([]string(nil), s.Items...)}
	}
	return out
}
