package accounts

import "github.com/verisage-dev/verisage/internal/model"

// DefaultMapping returns the production field-to-account mapping.
// Several income fields share account 4550.
func DefaultMapping() []model.AccountMapping {
	return []model.AccountMapping{
		// Income.
		{Field: "offering", Account: "4500", Description: "OFFERING", Side: model.SideCredit},
		{Field: "tithe", Account: "4510", Description: "TITHE", Side: model.SideCredit},
		{Field: "seedOffering", Account: "4550", Description: "SEED OFFERING", Side: model.SideCredit},
		{Field: "thanksgiving", Account: "4550", Description: "THANKSGIVING", Side: model.SideCredit},
		{Field: "annualThanksgiving", Account: "4550", Description: "ANNUAL THANKSGIVING", Side: model.SideCredit},
		{Field: "otherProject", Account: "4550", Description: "OTHER PROJECTS", Side: model.SideCredit},
		{Field: "donationReceived", Account: "4560", Description: "DONATION RECEIVED", Side: model.SideCredit},

		// Expenses.
		{Field: "remittance25Percent", Account: "5000", Description: "25% REMITTANCE TO NAT. OFFICE", Side: model.SideDebit},
		{Field: "remittance5PercentZonal", Account: "5001", Description: "5% REMITTANCE TO ZONAL HEADQUARTERS", Side: model.SideDebit},
		{Field: "remittance5PercentHQ", Account: "5002", Description: "5% REMITTANCE FOR HQ. BUILDING", Side: model.SideDebit},
		{Field: "pastorsPension", Account: "4020", Description: "PASTOR'S PENSION", Side: model.SideDebit},
		{Field: "medicalWelfare", Account: "7120", Description: "MEDICAL WELFARE", Side: model.SideDebit},
		{Field: "officeExpenses", Account: "6005", Description: "OFFICE EXPENSES", Side: model.SideDebit},
		{Field: "fuelAndOil", Account: "8200", Description: "FUEL & OIL", Side: model.SideDebit},
		{Field: "repairsEquipment", Account: "8410", Description: "REPAIRS & MAINTENANCE - EQUIPMENT", Side: model.SideDebit},
		{Field: "donationsGiftsLoveOffering", Account: "5030", Description: "DONATIONS/GIFTS/LOVE OFFERING", Side: model.SideDebit},
	}
}
