package sample

import (
	"reflect"

	"github.com/unbound-force/forge/internal/target"
)

// Module registers the whole sample domain.
func Module() *target.Module {
	return target.NewModule("sample",
		[]target.Func{
			{Name: "Add", Fn: Add},
			{Name: "Subtract", Fn: Subtract},
			{Name: "Multiply", Fn: Multiply},
			{Name: "Divide", Fn: Divide},
			{Name: "Modulus", Fn: Modulus},
			{Name: "Power", Fn: Power},
			{Name: "SquareRoot", Fn: SquareRoot},
			{Name: "Absolute", Fn: Absolute},
			{Name: "Concat", Fn: Concat},
			{Name: "Substring", Fn: Substring},
			{Name: "CharAt", Fn: CharAt},
			{Name: "ToUpper", Fn: ToUpper},
			{Name: "ToLower", Fn: ToLower},
			{Name: "Replace", Fn: Replace},
			{Name: "StartsWith", Fn: StartsWith},
			{Name: "EndsWith", Fn: EndsWith},
			{Name: "Contains", Fn: Contains},
			{Name: "Length", Fn: Length},
			{Name: "Trim", Fn: Trim},
		},
		[]*target.Class{
			{
				Name:       "Account",
				Type:       reflect.TypeOf(Account{}),
				New:        NewAccount,
				ParamNames: []string{"number", "owner", "balance"},
				Assoc: []target.Assoc{
					{Name: "Open", Fn: Open},
					{Name: "ValidNumber", Fn: ValidNumber},
				},
			},
			{
				Name:       "Rectangle",
				Type:       reflect.TypeOf(Rectangle{}),
				New:        NewRectangle,
				ParamNames: []string{"width", "height"},
				Assoc: []target.Assoc{
					{Name: "Square", Fn: Square},
				},
			},
			{
				Name:       "Person",
				Type:       reflect.TypeOf(Person{}),
				New:        NewPerson,
				ParamNames: []string{"name", "age"},
			},
		})
}
