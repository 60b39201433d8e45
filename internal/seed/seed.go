// Package seed builds the default portal state written into an empty store.
package seed

import (
	"fmt"

	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	employeedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/employee"
	fleetdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/fleet"
	leaderdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/leader"
	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	userdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/user"
	violatordm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/violator"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	name, login, password, role, department, lastActive string
}

var accounts = []account{
	{"Администратор системы", "admin", "admin123", "admin", "Штаб", "2024-01-15"},
	{"Руководитель ОУР", "leader", "leader123", "leader", "ОУР", "2024-01-15"},
	{"Сотрудник ППСП", "employee", "employee123", "employee", "ППСП", "2024-01-14"},
	{"Гражданин", "user", "user123", "user", "-", "2024-01-13"},
	{"Иванов А.С.", "ivanov", "password123", "leader", "Штаб", "2024-01-15"},
	{"Петрова М.К.", "petrova", "password123", "leader", "ОУР", "2024-01-15"},
	{"Сидоров В.П.", "sidorov", "password123", "employee", "ОУР", "2024-01-14"},
	{"Козлов Д.И.", "kozlov", "password123", "employee", "ППСП", "2024-01-14"},
	{"Николаев С.М.", "nikolaev", "password123", "employee", "ППСП", "2024-01-13"},
}

// Default returns a SeedFunc producing the demo state. Passwords are hashed
// with the given bcrypt cost.
func Default(cost int) store.SeedFunc {
	return func() (*store.State, error) {
		return Build(cost)
	}
}

func Build(cost int) (*store.State, error) {
	st := store.Empty()

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.login, err)
		}
		st.Users = append(st.Users, userdm.User{
			ID:         st.NextID(),
			Name:       a.name,
			Login:      a.login,
			Password:   string(hash),
			Role:       a.role,
			Department: a.department,
			LastActive: a.lastActive,
		})
	}

	st.News = []newsdm.Article{
		{
			ID:      st.NextID(),
			Title:   "Обновление системы МВД",
			Excerpt: "Внедрена новая система управления правоохранительной организацией",
			Content: "Сегодня была запущена обновленная версия системы МВД. Теперь граждане могут подавать заявления онлайн, а сотрудники имеют доступ к расширенным функциям работы с базой данных.",
			Image:   "https://via.placeholder.com/400/200?text=News+1",
			Author:  "Администратор",
			Date:    "2024-01-15",
		},
		{
			ID:      st.NextID(),
			Title:   "Набор новых сотрудников",
			Excerpt: "Объявлен конкурс на замещение вакантных должностей",
			Content: "МВД объявляет о наборе сотрудников в отделы ОУР и ППСП. Требования: высшее образование, отсутствие судимости, физическая подготовка.",
			Image:   "https://via.placeholder.com/400/200?text=News+2",
			Author:  "Руководство ОУР",
			Date:    "2024-01-14",
		},
	}

	st.Applications = []appdm.Application{
		{
			ID:          st.NextID(),
			Type:        "Заявление о преступлении",
			Title:       "Кража имущества",
			Author:      "Гражданин",
			AuthorLogin: "user",
			Status:      "новое",
			Priority:    "высокий",
			Department:  "ОУР",
			Description: "Сообщаю о краже личного имущества из автомобиля",
			CreatedAt:   "2024-01-15T10:30:00Z",
			Responses:   []appdm.Response{},
		},
		{
			ID:          st.NextID(),
			Type:        "Обращение к руководству",
			Title:       "Вопрос по работе отдела",
			Author:      "Сидоров В.П.",
			AuthorLogin: "sidorov",
			Status:      "в работе",
			Priority:    "средний",
			Department:  "ОУР",
			Description: "Прошу разъяснить порядок обработки заявлений",
			CreatedAt:   "2024-01-14T15:45:00Z",
			Responses: []appdm.Response{
				{
					ID:         st.NextID(),
					Author:     "Петрова М.К.",
					Text:       "Заявление принято в работу",
					CreatedAt:  "2024-01-14T16:00:00Z",
					IsOfficial: true,
				},
			},
		},
	}

	st.Database = []violatordm.Record{
		{
			ID:          st.NextID(),
			FullName:    "Иванов Иван Иванович",
			BirthDate:   "1985-05-10",
			Document:    "4512 123456",
			CaseNumber:  "ОУР-2024-001",
			CaseType:    "Уголовное",
			Status:      "Расследование",
			Department:  "ОУР",
			Officer:     "Петрова М.К.",
			Address:     "г. Москва, ул. Центральная, 12",
			Phone:       "+7 (900) 123-45-67",
			Description: "Расследование дела о нарушении",
		},
		{
			ID:          st.NextID(),
			FullName:    "Петров Петр Петрович",
			BirthDate:   "1990-11-22",
			Document:    "4512 654321",
			CaseNumber:  "ППСП-2024-015",
			CaseType:    "Административное",
			Status:      "Завершено",
			Department:  "ППСП",
			Officer:     "Сидоров В.П.",
			Address:     "г. Москва, ул. Южная, 7",
			Phone:       "+7 (900) 765-43-21",
			Description: "Нарушение общественного порядка",
		},
	}

	for _, e := range []employeedm.Employee{
		{FullName: "Иванов А.С.", Rank: "Полковник", Position: "Начальник штаба", Department: "Штаб", Phone: "internal-001", BadgeNumber: "МВД-001", StartDate: "2020-01-15", Status: "Активный"},
		{FullName: "Петрова М.К.", Rank: "Подполковник", Position: "Начальник ОУР", Department: "ОУР", Phone: "internal-002", BadgeNumber: "МВД-002", StartDate: "2021-03-20", Status: "Активный"},
		{FullName: "Сидоров В.П.", Rank: "Капитан", Position: "Старший оперуполномоченный", Department: "ОУР", Phone: "internal-010", BadgeNumber: "МВД-010", StartDate: "2022-05-12", Status: "Активный"},
		{FullName: "Жуков И.К.", Rank: "Старший сержант", Position: "Инспектор ППСП", Department: "ППСП", Phone: "internal-021", BadgeNumber: "МВД-021", StartDate: "2023-02-10", Status: "Активный"},
		{FullName: "Морозов Е.Г.", Rank: "Майор", Position: "Руководитель следственного отдела", Department: "СО", Phone: "internal-030", BadgeNumber: "МВД-030", StartDate: "2019-09-01", Status: "Активный"},
		{FullName: "Рахимова Л.Р.", Rank: "Капитан", Position: "Старший участковый", Department: "УУП", Phone: "internal-044", BadgeNumber: "МВД-044", StartDate: "2020-06-18", Status: "Активный"},
		{FullName: "Демин А.В.", Rank: "Подполковник", Position: "Начальник УСБ", Department: "УСБ", Phone: "internal-060", BadgeNumber: "МВД-060", StartDate: "2018-11-05", Status: "Командировка"},
	} {
		e.ID = st.NextID()
		st.Employees = append(st.Employees, e)
	}

	for _, l := range []leaderdm.Leader{
		{FullName: "Иванов А.С.", Position: "Начальник штаба", Department: "Штаб", Bio: "Опытный руководитель с 15-летним стажем", Contacts: "+7 (495) 000-10-01, каб. 401", Photo: "https://images.unsplash.com/photo-1544723795-3fb6469f5b39?auto=format&fit=crop&w=640&q=60"},
		{FullName: "Петрова М.К.", Position: "Начальник ОУР", Department: "ОУР", Bio: "Специалист по оперативной работе", Contacts: "+7 (495) 000-10-22, каб. 215", Photo: "https://images.unsplash.com/photo-1544005313-94ddf0286df2?auto=format&fit=crop&w=640&q=60"},
		{FullName: "Демин А.В.", Position: "Начальник УСБ", Department: "УСБ", Bio: "Курирует вопросы внутренней безопасности и контроля", Contacts: "+7 (495) 000-42-15, шифр 120", Photo: "https://images.unsplash.com/photo-1522199992901-9e1c61136cc5?auto=format&fit=crop&w=640&q=60"},
	} {
		l.ID = st.NextID()
		st.Leaders = append(st.Leaders, l)
	}

	for _, v := range []fleetdm.Vehicle{
		{Department: "ППСП", Type: "Патрульный автомобиль", Model: "Ford Crown Victoria", Plate: "МВД 001", Status: "В строю", Notes: "Основной патрульный экипаж"},
		{Department: "ОУР", Type: "Опер. автомобиль", Model: "Toyota Camry", Plate: "МВД 010", Status: "В ремонте", Notes: "Требуется замена тормозных колодок"},
		{Department: "СО", Type: "Следственная группа", Model: "Mercedes Vito", Plate: "МВД 020", Status: "В строю", Notes: "Используется для выезда СО на место происшествия"},
	} {
		v.ID = st.NextID()
		st.Fleet = append(st.Fleet, v)
	}

	st.Stats = st.ComputeStats()
	return st, nil
}
