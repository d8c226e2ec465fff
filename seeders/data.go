package seeders

var teamsData = []string{
	"Механики",
	"Электрики",
	"ИТ-поддержка",
}

var usersData = []struct {
	FullName string
	Email    string
	TeamName string // пусто - пользователь без команды (заявитель)
}{
	{FullName: "Администратор Системы", Email: "admin@maintenance.local"},
	{FullName: "Иван Петров", Email: "i.petrov@maintenance.local", TeamName: "Механики"},
	{FullName: "Сергей Орлов", Email: "s.orlov@maintenance.local", TeamName: "Механики"},
	{FullName: "Анна Смирнова", Email: "a.smirnova@maintenance.local", TeamName: "Электрики"},
	{FullName: "Дмитрий Козлов", Email: "d.kozlov@maintenance.local", TeamName: "ИТ-поддержка"},
	{FullName: "Мария Иванова", Email: "m.ivanova@maintenance.local"},
}

var equipmentData = []struct {
	Name            string
	SerialNumber    string
	Category        string
	TeamName        string
	TechnicianEmail string
	Location        string
	Manufacturer    string
}{
	{Name: "Токарный станок", SerialNumber: "LTH-0001", Category: "Станки", TeamName: "Механики",
		TechnicianEmail: "i.petrov@maintenance.local", Location: "Цех 1", Manufacturer: "DMG Mori"},
	{Name: "Фрезерный станок", SerialNumber: "MIL-0002", Category: "Станки", TeamName: "Механики",
		TechnicianEmail: "s.orlov@maintenance.local", Location: "Цех 1", Manufacturer: "Haas"},
	{Name: "Компрессор", SerialNumber: "CMP-0003", Category: "Пневматика", TeamName: "Механики",
		Location: "Цех 2"},
	{Name: "Распределительный щит", SerialNumber: "ELP-0004", Category: "Электрика", TeamName: "Электрики",
		TechnicianEmail: "a.smirnova@maintenance.local", Location: "Подстанция"},
	{Name: "Сервер учета", SerialNumber: "SRV-0005", Category: "ИТ", TeamName: "ИТ-поддержка",
		TechnicianEmail: "d.kozlov@maintenance.local", Location: "Серверная", Manufacturer: "Dell"},
}
