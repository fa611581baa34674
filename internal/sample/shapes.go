package sample

import "fmt"

// Rectangle is an axis-aligned rectangle with positive dimensions.
type Rectangle struct {
	width  float64
	height float64
}

func NewRectangle(width, height float64) (*Rectangle, error) {
	if width <= 0 || height <= 0 {
		return nil, ValidationError("width and height must be positive")
	}
	return &Rectangle{width: width, height: height}, nil
}

// Square is a factory for the equal-sided case.
func Square(side float64) (*Rectangle, error) {
	return NewRectangle(side, side)
}

func (r *Rectangle) Width() float64  { return r.width }
func (r *Rectangle) Height() float64 { return r.height }

func (r *Rectangle) SetWidth(w float64) error {
	if w <= 0 {
		return ValidationError("width must be positive")
	}
	r.width = w
	return nil
}

func (r *Rectangle) SetHeight(h float64) error {
	if h <= 0 {
		return ValidationError("height must be positive")
	}
	r.height = h
	return nil
}

func (r *Rectangle) Area() float64      { return r.width * r.height }
func (r *Rectangle) Perimeter() float64 { return 2 * (r.width + r.height) }

// Person carries a name and an age.
type Person struct {
	Name string
	Age  int
}

func NewPerson(name string, age int) (*Person, error) {
	if name == "" {
		return nil, ValidationError("name cannot be empty")
	}
	if age < 0 {
		return nil, ValidationError("age cannot be negative")
	}
	return &Person{Name: name, Age: age}, nil
}

func (p *Person) Greet() string {
	return fmt.Sprintf("Hello, my name is %s and I am %d years old.", p.Name, p.Age)
}

func (p *Person) HaveBirthday() { p.Age++ }
