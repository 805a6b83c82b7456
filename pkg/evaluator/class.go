package evaluator

import "github.com/loxkit/golox/pkg/lexer"

// Class is a user-defined class: a name, an optional superclass, and a
// method table. The superclass graph is acyclic by construction (the
// resolver rejects a class naming itself, and a superclass expression must
// evaluate to an already-defined class).
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) loxValue() {}

// FindMethod looks up a method by name on the class, walking the ancestor
// chain. Returns nil if no ancestor defines it.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the arity of the init method, or 0 for classes without one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates a new instance and, if the class defines an initializer,
// binds and invokes it with the supplied arguments. The initializer's return
// value is ignored in favor of the new instance.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string {
	return c.Name
}

// Instance is a class instance with its own mutable field map. Fields are
// created lazily on first Set and shadow methods of the same name on Get.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (*Instance) loxValue() {}

// Get reads a property: the instance's own fields first, then the class
// method table (walking ancestors), binding any method found to this
// instance. An unknown name is a RuntimeError.
func (i *Instance) Get(name lexer.Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.Bind(i), nil
	}
	return nil, &RuntimeError{
		Token:   name,
		Message: "Undefined property '" + name.Lexeme + "'.",
	}
}

// Set stores a field, creating it if it does not exist. Unlike local
// variables, fields need no prior declaration.
func (i *Instance) Set(name lexer.Token, v Value) {
	i.fields[name.Lexeme] = v
}

func (i *Instance) String() string {
	return i.class.Name + " instance"
}
