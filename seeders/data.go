package seeders

type equipmentTypeSeed struct {
	Name       string
	PeriodDays int
	Checklist  []string
}

var equipmentTypesData = []equipmentTypeSeed{
	{
		Name:       "Сварочный аппарат",
		PeriodDays: 180,
		Checklist: []string{
			"Кабель питания без повреждений",
			"Сварочные кабели и зажим массы исправны",
			"Корпус заземлён",
			"Вентилятор охлаждения работает",
		},
	},
	{
		Name:       "Угловая шлифмашина",
		PeriodDays: 90,
		Checklist: []string{
			"Защитный кожух установлен",
			"Диск без трещин и сколов",
			"Кабель и вилка без повреждений",
			"Выключатель фиксируется и отключается",
		},
	},
	{
		Name:       "Грузоподъёмная таль",
		PeriodDays: 365,
		Checklist: []string{
			"Бирка с грузоподъёмностью читается",
			"Цепь без деформаций и износа",
			"Крюк с предохранительной защёлкой",
			"Тормоз удерживает груз",
		},
	},
	{
		Name:       "Компрессор",
		PeriodDays: 365,
		Checklist: []string{
			"Манометр исправен",
			"Предохранительный клапан опломбирован",
			"Шланги без трещин",
			"Конденсат слит",
		},
	},
	{
		Name:       "Удлинитель",
		PeriodDays: 180,
		Checklist: []string{
			"Изоляция кабеля цела",
			"Розетки без следов оплавления",
			"Есть заземляющий контакт",
		},
	},
}

var companiesData = []struct {
	Name        string
	ContactName string
	Phone       string
}{
	{Name: "ISG Верфь", ContactName: "Диспетчерская", Phone: "+7 000 000-00-01"},
	{Name: "МорМонтаж", ContactName: "Прораб участка", Phone: "+7 000 000-00-02"},
	{Name: "ЭлектроСудоСервис", ContactName: "Главный энергетик", Phone: "+7 000 000-00-03"},
}

var projectsData = []struct {
	Name        string
	Company     string
	Description string
}{
	{Name: "Корпус 101", Company: "ISG Верфь", Description: "Сборка корпуса на стапеле №1"},
	{Name: "Док-ремонт 7", Company: "МорМонтаж", Description: "Ремонт в сухом доке"},
}

type equipmentSeed struct {
	QRCode   string
	Name     string
	Type     string
	Serial   string
	Location string
	Project  string
	Company  string
}

var demoEquipmentData = []equipmentSeed{
	{QRCode: "EQ-DEMO01", Name: "Сварочный аппарат Kemppi №1", Type: "Сварочный аппарат", Serial: "KMP-0001", Location: "Стапель №1", Project: "Корпус 101", Company: "ISG Верфь"},
	{QRCode: "EQ-DEMO02", Name: "Болгарка Makita 125", Type: "Угловая шлифмашина", Serial: "MK-125-77", Location: "Main Workshop", Company: "МорМонтаж"},
	{QRCode: "EQ-DEMO03", Name: "Таль цепная 2т", Type: "Грузоподъёмная таль", Serial: "TL-2000-3", Location: "Сухой док", Project: "Док-ремонт 7", Company: "МорМонтаж"},
	{QRCode: "EQ-DEMO04", Name: "Компрессор поршневой", Type: "Компрессор", Location: "Компрессорная"},
	{QRCode: "EQ-DEMO05", Name: "Удлинитель 50 м", Type: "Удлинитель", Location: "Main Workshop", Company: "ЭлектроСудоСервис"},
}
