package store

import (
	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	employeedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/employee"
	fleetdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/fleet"
	leaderdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/leader"
	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	userdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/user"
	violatordm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/violator"
)

func Users(s *Store) *Collection[userdm.User] {
	return NewCollection(s,
		func(st *State) *[]userdm.User { return &st.Users },
		func(u *userdm.User) *int64 { return &u.ID })
}

func News(s *Store) *Collection[newsdm.Article] {
	return NewCollection(s,
		func(st *State) *[]newsdm.Article { return &st.News },
		func(a *newsdm.Article) *int64 { return &a.ID })
}

func Applications(s *Store) *Collection[appdm.Application] {
	return NewCollection(s,
		func(st *State) *[]appdm.Application { return &st.Applications },
		func(a *appdm.Application) *int64 { return &a.ID })
}

func Database(s *Store) *Collection[violatordm.Record] {
	return NewCollection(s,
		func(st *State) *[]violatordm.Record { return &st.Database },
		func(r *violatordm.Record) *int64 { return &r.ID })
}

func Employees(s *Store) *Collection[employeedm.Employee] {
	return NewCollection(s,
		func(st *State) *[]employeedm.Employee { return &st.Employees },
		func(e *employeedm.Employee) *int64 { return &e.ID })
}

func FiredEmployees(s *Store) *Collection[employeedm.FiredEmployee] {
	return NewCollection(s,
		func(st *State) *[]employeedm.FiredEmployee { return &st.FiredEmployees },
		func(e *employeedm.FiredEmployee) *int64 { return &e.ID })
}

func Leaders(s *Store) *Collection[leaderdm.Leader] {
	return NewCollection(s,
		func(st *State) *[]leaderdm.Leader { return &st.Leaders },
		func(l *leaderdm.Leader) *int64 { return &l.ID })
}

func Fleet(s *Store) *Collection[fleetdm.Vehicle] {
	return NewCollection(s,
		func(st *State) *[]fleetdm.Vehicle { return &st.Fleet },
		func(v *fleetdm.Vehicle) *int64 { return &v.ID })
}
