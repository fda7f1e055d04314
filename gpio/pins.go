package gpio

import "github.com/jangala-dev/tinygo-l4hal/stm32l4"

// PA2 is pin 2 of its port in reset state.
type PA2 struct{ port *stm32l4.GPIO_Type }

// PA2AF7 is PA2 switched to alternate function 7.
type PA2AF7 struct{ _ struct{} }

// IntoAF7 switches PA2 to alternate function 7.
func (p PA2) IntoAF7() PA2AF7 {
	setAlternate(p.port, 2, 7)
	return PA2AF7{}
}

// PA3 is pin 3 of its port in reset state.
type PA3 struct{ port *stm32l4.GPIO_Type }

// PA3AF7 is PA3 switched to alternate function 7.
type PA3AF7 struct{ _ struct{} }

// IntoAF7 switches PA3 to alternate function 7.
func (p PA3) IntoAF7() PA3AF7 {
	setPullUp(p.port, 3)
	setAlternate(p.port, 3, 7)
	return PA3AF7{}
}

// PA9 is pin 9 of its port in reset state.
type PA9 struct{ port *stm32l4.GPIO_Type }

// PA9AF7 is PA9 switched to alternate function 7.
type PA9AF7 struct{ _ struct{} }

// IntoAF7 switches PA9 to alternate function 7.
func (p PA9) IntoAF7() PA9AF7 {
	setAlternate(p.port, 9, 7)
	return PA9AF7{}
}

// PA10 is pin 10 of its port in reset state.
type PA10 struct{ port *stm32l4.GPIO_Type }

// PA10AF7 is PA10 switched to alternate function 7.
type PA10AF7 struct{ _ struct{} }

// IntoAF7 switches PA10 to alternate function 7.
func (p PA10) IntoAF7() PA10AF7 {
	setPullUp(p.port, 10)
	setAlternate(p.port, 10, 7)
	return PA10AF7{}
}

// PB6 is pin 6 of its port in reset state.
type PB6 struct{ port *stm32l4.GPIO_Type }

// PB6AF7 is PB6 switched to alternate function 7.
type PB6AF7 struct{ _ struct{} }

// IntoAF7 switches PB6 to alternate function 7.
func (p PB6) IntoAF7() PB6AF7 {
	setAlternate(p.port, 6, 7)
	return PB6AF7{}
}

// PB7 is pin 7 of its port in reset state.
type PB7 struct{ port *stm32l4.GPIO_Type }

// PB7AF7 is PB7 switched to alternate function 7.
type PB7AF7 struct{ _ struct{} }

// IntoAF7 switches PB7 to alternate function 7.
func (p PB7) IntoAF7() PB7AF7 {
	setPullUp(p.port, 7)
	setAlternate(p.port, 7, 7)
	return PB7AF7{}
}

// PD5 is pin 5 of its port in reset state.
type PD5 struct{ port *stm32l4.GPIO_Type }

// PD5AF7 is PD5 switched to alternate function 7.
type PD5AF7 struct{ _ struct{} }

// IntoAF7 switches PD5 to alternate function 7.
func (p PD5) IntoAF7() PD5AF7 {
	setAlternate(p.port, 5, 7)
	return PD5AF7{}
}

// PD6 is pin 6 of its port in reset state.
type PD6 struct{ port *stm32l4.GPIO_Type }

// PD6AF7 is PD6 switched to alternate function 7.
type PD6AF7 struct{ _ struct{} }

// IntoAF7 switches PD6 to alternate function 7.
func (p PD6) IntoAF7() PD6AF7 {
	setPullUp(p.port, 6)
	setAlternate(p.port, 6, 7)
	return PD6AF7{}
}
