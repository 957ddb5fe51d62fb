package config

import "bd-election-analysis/models"

// hies2022 is the HIES 2022 household income and expenditure per division (BDT/month)
var hies2022 = []models.DivisionEconomy{
	{Division: "Dhaka", MonthlyIncome: 42696, Expenditure: 37935},
	{Division: "Chattogram", MonthlyIncome: 34054, Expenditure: 34843},
	{Division: "Rajshahi", MonthlyIncome: 30398, Expenditure: 25358},
	{Division: "Khulna", MonthlyIncome: 28192, Expenditure: 26135},
	{Division: "Barishal", MonthlyIncome: 25892, Expenditure: 23940},
	{Division: "Mymensingh", MonthlyIncome: 24183, Expenditure: 24554},
	{Division: "Sylhet", MonthlyIncome: 22861, Expenditure: 30402},
	{Division: "Rangpur", MonthlyIncome: 21674, Expenditure: 21667},
}

// DefaultEconomicReference returns the embedded HIES 2022 reference table
func DefaultEconomicReference() models.EconomicReference {
	ref, err := models.NewEconomicReference(hies2022)
	if err != nil {
		panic(err) // the embedded table has unique divisions
	}
	return ref
}

// Divisions returns the names of the 8 national divisions
func Divisions() []string {
	names := make([]string, len(hies2022))
	for i, d := range hies2022 {
		names[i] = d.Division
	}
	return names
}
