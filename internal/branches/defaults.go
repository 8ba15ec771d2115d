package branches

// DefaultNames returns the branch directory a new project starts with.
func DefaultNames() []string {
	return []string{
		"1004", "72 ROAD FESTAC TOWN", "ABAKALIKI", "ABAKPA/ NEW HAVEN",
		"ABARRA OBODO", "ABEOKUTA", "ABORU", "ABRAKA", "ADAMO", "ADARANIJO G12",
		"ADIGBE", "ADO EKITI", "AGBANI", "AGBEDE", "AGBOOLA", "AGBOR", "AGBOYI",
		"AGUDA", "AIRPORT ROAD PH", "AIT ALAGBADO", "AJAH", "AJANGBADI",
		"AJAO ESTATE", "AJEGUNLE", "AKOKA", "AKOKA 3", "AKOKA ZONE 1",
		"AKOKA ZONE 2", "AKURE MAIN.", "AKUTE", "ALABA", "ALAPERE", "ALAPERE ZONE",
		"ALPHA BEACH", "AMUWO ODOFIN", "ANFANI", "ANTHONY", "APAPA", "APAPA 2",
		"AREA 5", "ASABA", "AWKA", "AWODIORA", "AYOBO", "BADAGRY", "BARANGONI",
		"BARIGA", "BARIGA 2", "BARIGA ZONE 1", "BARUWA-LAGOS", "BASSA", "BENIN",
		"BERGER /UTAKO", "BOGIGE", "BONNY ISLAND", "BUCKNOR", "BWARI ABUJA",
		"CALABAR", "CHALLENGE", "COCONUT", "COMMAND", "DAPE", "DOPEMU", "EBUTE META",
		"EBUTE METTA", "EDE", "EGAN", "EGBEDA", "EJIGBO", "EKET", "EKORE-OWORO",
		"ELEWERAN", "EPE", "EPE 2", "EVWRENI", "FADEYI", "FELELE", "FESTAC",
		"FOLA AGORO", "GBABA", "GBAGADA", "GBAGADA 1", "GBAGADA 3", "GBONGAN",
		"GWAGWALADA ABUJA", "IBA 3- GLORY HOUSE", "IBA CENTRAL", "IBA NEW TOWN",
		"IBUSA", "IDDAH", "IDIARABA", "IDIMU", "IDIROKO", "IDUMUJIE UGBOKO",
		"IFA ATTAI UYO", "IFAKO", "IGANDO", "IHEORJI", "IHIAGWA", "IHIE NDUME",
		"IJANIKIN", "IJEBU IGBO", "IJEBU ODE", "IJEDE RD", "IJESHA EXPRESS", "IJU",
		"IKEJA", "IKORODU", "IKOTA", "IKOTUN", "IKWERRE RD. P/H", "ILARO",
		"ILESHA-OWO EXPRESS", "ILORIN", "ILUPEJU", "IPAJA", "IPOYEWA", "ISASHI",
		"ISAWO IKORODU", "ISHASHI RD.", "ISHEFUN", "ISHERI", "ISOLO",
		"ISUTI RD- EGAN", "ITA ELEGA", "ITA OSHIN", "IWAYA", "JALINGO",
		"JIKWOYI - ABUJA", "JOS",
	}
}
