package jobmanager

// Declarations bind a job name to a callable signature once, usually at
// package level, and then stamp out descriptors:
//
//	var updateJob = jobmanager.DeclareMethod1("Update", (*Host).Update)
//
//	j := updateJob.New(42).SetInstance(host)
//	_ = j.Run(m)

// FuncDecl declares a job around a function without arguments.
type FuncDecl struct {
	name string
	fn   func()
}

func DeclareFunc(name string, fn func()) FuncDecl { return FuncDecl{name: name, fn: fn} }
func (d FuncDecl) Name() string                   { return d.name }
func (d FuncDecl) New() *Job                      { return NewFunc(d.name, d.fn) }

// FuncDecl1 declares a job around a function of one argument.
type FuncDecl1[A any] struct {
	name string
	fn   func(A)
}

func DeclareFunc1[A any](name string, fn func(A)) FuncDecl1[A] {
	return FuncDecl1[A]{name: name, fn: fn}
}
func (d FuncDecl1[A]) Name() string { return d.name }
func (d FuncDecl1[A]) New(a A) *Job { return NewFunc1(d.name, d.fn, a) }

// FuncDecl2 declares a job around a function of two arguments.
type FuncDecl2[A, B any] struct {
	name string
	fn   func(A, B)
}

func DeclareFunc2[A, B any](name string, fn func(A, B)) FuncDecl2[A, B] {
	return FuncDecl2[A, B]{name: name, fn: fn}
}
func (d FuncDecl2[A, B]) Name() string      { return d.name }
func (d FuncDecl2[A, B]) New(a A, b B) *Job { return NewFunc2(d.name, d.fn, a, b) }

// FuncDecl3 declares a job around a function of three arguments.
type FuncDecl3[A, B, C any] struct {
	name string
	fn   func(A, B, C)
}

func DeclareFunc3[A, B, C any](name string, fn func(A, B, C)) FuncDecl3[A, B, C] {
	return FuncDecl3[A, B, C]{name: name, fn: fn}
}
func (d FuncDecl3[A, B, C]) Name() string { return d.name }
func (d FuncDecl3[A, B, C]) New(a A, b B, c C) *Job {
	return NewFunc3(d.name, d.fn, a, b, c)
}

// MethodDecl declares a job around a method without arguments.
type MethodDecl[T any] struct {
	name   string
	method func(*T)
}

func DeclareMethod[T any](name string, method func(*T)) MethodDecl[T] {
	return MethodDecl[T]{name: name, method: method}
}
func (d MethodDecl[T]) Name() string       { return d.name }
func (d MethodDecl[T]) New() *MethodJob[T] { return NewMethod(d.name, d.method) }

// MethodDecl1 declares a job around a method of one argument.
type MethodDecl1[T, A any] struct {
	name   string
	method func(*T, A)
}

func DeclareMethod1[T, A any](name string, method func(*T, A)) MethodDecl1[T, A] {
	return MethodDecl1[T, A]{name: name, method: method}
}
func (d MethodDecl1[T, A]) Name() string { return d.name }
func (d MethodDecl1[T, A]) New(a A) *MethodJob[T] {
	return NewMethod1(d.name, d.method, a)
}

// MethodDecl2 declares a job around a method of two arguments.
type MethodDecl2[T, A, B any] struct {
	name   string
	method func(*T, A, B)
}

func DeclareMethod2[T, A, B any](name string, method func(*T, A, B)) MethodDecl2[T, A, B] {
	return MethodDecl2[T, A, B]{name: name, method: method}
}
func (d MethodDecl2[T, A, B]) Name() string { return d.name }
func (d MethodDecl2[T, A, B]) New(a A, b B) *MethodJob[T] {
	return NewMethod2(d.name, d.method, a, b)
}

// MethodDecl3 declares a job around a method of three arguments.
type MethodDecl3[T, A, B, C any] struct {
	name   string
	method func(*T, A, B, C)
}

func DeclareMethod3[T, A, B, C any](name string, method func(*T, A, B, C)) MethodDecl3[T, A, B, C] {
	return MethodDecl3[T, A, B, C]{name: name, method: method}
}
func (d MethodDecl3[T, A, B, C]) Name() string { return d.name }
func (d MethodDecl3[T, A, B, C]) New(a A, b B, c C) *MethodJob[T] {
	return NewMethod3(d.name, d.method, a, b, c)
}

// ClosureDecl declares a closure job: only the name is fixed, the closure
// is supplied per descriptor.
type ClosureDecl struct {
	name string
}

func DeclareClosure(name string) ClosureDecl { return ClosureDecl{name: name} }
func (d ClosureDecl) Name() string           { return d.name }
func (d ClosureDecl) New(fn func()) *Job     { return NewClosure(d.name, fn) }

// ClosureDecl1 declares a closure job taking one argument.
type ClosureDecl1[A any] struct {
	name string
}

func DeclareClosure1[A any](name string) ClosureDecl1[A] { return ClosureDecl1[A]{name: name} }
func (d ClosureDecl1[A]) Name() string                   { return d.name }
func (d ClosureDecl1[A]) New(fn func(A), a A) *Job {
	return NewClosure1(d.name, fn, a)
}
