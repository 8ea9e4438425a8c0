package password

// commonPasswords is the maintained deny list. Entries are lowercase;
// Validate and Estimate match case-insensitively on equality or containment.
var commonPasswords = []string{
	"password",
	"passw0rd",
	"password1",
	"123456",
	"12345678",
	"123456789",
	"1234567890",
	"qwerty",
	"qwertyuiop",
	"asdfgh",
	"zxcvbn",
	"abc123",
	"letmein",
	"welcome",
	"monkey",
	"dragon",
	"master",
	"shadow",
	"superman",
	"batman",
	"trustno1",
	"iloveyou",
	"sunshine",
	"princess",
	"football",
	"baseball",
	"starwars",
	"whatever",
	"admin123",
	"administrator",
	"changeme",
	"secret",
	"freedom",
	"charlie",
	"michael",
	"jessica",
	"jordan23",
	"harley",
	"hunter2",
	"pharmacy",
	"medical",
	"hospital",
	"doctor123",
	"nurse123",
	"patient1",
	"medicine",
	"health123",
}
