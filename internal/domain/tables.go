package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&SysScheduler{},
	// Identity
	&Account{},
	&Profile{},
	&UserRole{},
	&RegistrationRequest{},
	// Inventory
	&InventoryItem{},
	&Alert{},
	&ServiceRecord{},
}
