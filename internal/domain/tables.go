package domain

var Tables = []interface{}{
	&Property{},
	&Client{},
	&Agent{},
	&Transaction{},
}
