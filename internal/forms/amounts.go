package forms

import "github.com/shopspring/decimal"

// AmountFields lists the financial figures of the branch return. A text value
// under one of these keys is read as an amount; under any other key it is
// kept verbatim as an attribute.
var AmountFields = []string{
	// Income.
	"offering",
	"tithe",
	"seedOffering",
	"thanksgiving",
	"annualThanksgiving",
	"buildingProject",
	"otherProject",
	"crusadeAndMissionary",
	"groupMinistryDeposits",
	"assetDisposal",
	"interestIncome",
	"loanRepaidByDebtors",
	"loanReceived",
	"donationReceived",

	// Expenses.
	"remittance25Percent",
	"remittance5PercentHQ",
	"remittance5PercentZonal",
	"salariesAndAllowances",
	"pastorsPension",
	"crusadeMission",
	"parsonageWelfare",
	"transportAndTravels",
	"hotelAndAccommodation",
	"donationsGiftsLoveOffering",
	"entertainmentAndFeeding",
	"medicalWelfare",
	"churchExpenses",
	"officeExpenses",
	"rentParsonage",
	"rentChurchBuilding",
	"telephoneInternet",
	"electricityLighting",
	"fuelAndOil",
	"licenseDuesSubscriptions",
	"security",
	"bankCharges",
	"groupExpenses",
	"loanAdvanced",
	"loanRepaidToCreditor",
	"repairsFurnitureAndFittings",
	"repairsEquipment",
	"repairsMotorVehicles",
	"repairsChurchBuilding",
	"repairsParsonage",
	"building",
	"motorVehicle",
	"generator",
	"musicalEquipment",
	"asabaProject",
	"others",
}

var amountFieldSet = func() map[string]bool {
	m := make(map[string]bool, len(AmountFields))
	for _, k := range AmountFields {
		m[k] = true
	}
	return m
}()

// IsAmountField reports whether key is one of AmountFields.
func IsAmountField(key string) bool {
	return amountFieldSet[key]
}

// Amounts carry at most MaxIntegerDigits digits before the decimal point
// and MaxFractionDigits after it.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 6
)

// inRange reports whether d fits the amount bounds. It reads only the
// coefficient length and exponent, so values like 1e50000000 are rejected
// without being expanded.
func inRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if -exp > MaxFractionDigits {
		return false
	}
	return int64(d.NumDigits())+exp <= MaxIntegerDigits
}
