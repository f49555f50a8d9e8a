package dialogue

const (
	replyGreeting     = "Vaalaykum assalom! Sizga qanday yordam bera olaman?"
	replyThanks       = "Arzimaydi! Sizga yordam bera olganimdan xursandman."
	replyBotName      = "Mening ismim Epsilion."
	replyBotCreator   = "Meni ishlab chiqaruvchimning taxallusi Neo."
	replyBotGeneric   = "Men Epsilion, Neo tomonidan yaratilganman."
	replyCreditReason = "Mening kredit scoring modelim buni bashorat qildi."
	replyAskID        = "Kredit limiti uchun ID raqamingizni kiriting (masalan, '1', 'bir', '127')."
	replyAskValidID   = "To'g'ri ID raqamini kiriting (masalan, '1', 'bir', '127')."
	replyIDNotFound   = "ID %d topilmadi. Iltimos, boshqa ID kiriting."
	replyCreditAmount = "Sizga bir yil muddatga %.2f dollar miqdorida kredit bera olamiz."
	replyCannotAnswer = "Uzr, hozirda javob bera olmayman."
	replyEmptyInput   = "Iltimos, aniq ovozli xabar yuboring yoki matn kiriting."
)
