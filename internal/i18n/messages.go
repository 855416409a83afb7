package i18n

// messages maps a key to its translation per locale.
var messages = map[string]map[string]string{
	// Validation
	"error.email.required":        {"en": "Email is required", "es": "El correo es obligatorio", "ru": "Укажите email"},
	"error.email.invalid":         {"en": "Email is not valid", "es": "El correo no es válido", "ru": "Некорректный email"},
	"error.email.too_long":        {"en": "Email is too long", "es": "El correo es demasiado largo", "ru": "Слишком длинный email"},
	"error.password.required":     {"en": "Password is required", "es": "La contraseña es obligatoria", "ru": "Укажите пароль"},
	"error.password.too_short":    {"en": "Password is too short", "es": "La contraseña es demasiado corta", "ru": "Пароль слишком короткий"},
	"error.password.too_long":     {"en": "Password is too long", "es": "La contraseña es demasiado larga", "ru": "Пароль слишком длинный"},
	"error.password.no_uppercase": {"en": "Password must contain an uppercase letter", "es": "La contraseña debe contener una mayúscula", "ru": "Пароль должен содержать заглавную букву"},
	"error.password.no_digit":     {"en": "Password must contain a digit", "es": "La contraseña debe contener un número", "ru": "Пароль должен содержать цифру"},
	"error.password.confirmation": {"en": "Passwords do not match", "es": "Las contraseñas no coinciden", "ru": "Пароли не совпадают"},
	"error.terms.not_accepted":    {"en": "You must accept the terms", "es": "Debe aceptar los términos", "ru": "Необходимо принять условия"},
	"error.field.required":        {"en": "This field is required", "es": "Este campo es obligatorio", "ru": "Обязательное поле"},
	"error.field.too_short":       {"en": "Must be at least 5 characters long", "es": "Debe tener al menos 5 caracteres", "ru": "Не короче 5 символов"},
	"error.content.too_short":     {"en": "Content must be at least 50 characters long", "es": "El contenido debe tener al menos 50 caracteres", "ru": "Текст не короче 50 символов"},
	"error.slug.invalid":          {"en": "Only lowercase letters, numbers and hyphens", "es": "Solo minúsculas, números y guiones", "ru": "Только строчные буквы, цифры и дефисы"},
	"error.url.invalid":           {"en": "Must be a valid URL", "es": "Debe ser una URL válida", "ru": "Некорректный URL"},
	"error.category.invalid":      {"en": "Choose a category", "es": "Elija una categoría", "ru": "Выберите категорию"},
	"error.locale.invalid":        {"en": "Unsupported language", "es": "Idioma no soportado", "ru": "Неподдерживаемый язык"},
	"error.db":                    {"en": "DB error", "es": "DB error", "ru": "DB error"},

	// Authentication
	"auth.error.common":       {"en": "Invalid email or password", "es": "Correo o contraseña incorrectos", "ru": "Неверный email или пароль"},
	"auth.error.confirm":      {"en": "Please confirm your email first", "es": "Primero confirme su correo", "ru": "Сначала подтвердите email"},
	"auth.error.social":       {"en": "Social sign in failed", "es": "Error al iniciar sesión con la red social", "ru": "Не удалось войти через соцсеть"},
	"auth.error.exists":       {"en": "An account with this email already exists", "es": "Ya existe una cuenta con este correo", "ru": "Аккаунт с таким email уже существует"},
	"auth.error.rate_limited": {"en": "Too many requests. Please try again later.", "es": "Demasiadas solicitudes. Inténtelo más tarde.", "ru": "Слишком много запросов. Попробуйте позже."},
	"recover.reset.impossible": {"en": "This recovery link is invalid or expired", "es": "El enlace de recuperación no es válido o ha caducado", "ru": "Ссылка для восстановления недействительна или устарела"},

	// Notices
	"auth.notice.registered": {"en": "Check your inbox to confirm your email", "es": "Revise su correo para confirmar la cuenta", "ru": "Проверьте почту, чтобы подтвердить email"},
	"auth.notice.confirmed":  {"en": "Your email is confirmed, you can sign in", "es": "Su correo está confirmado, puede iniciar sesión", "ru": "Email подтверждён, можно войти"},
	"auth.notice.recovered":  {"en": "Your password was changed, you can sign in", "es": "Su contraseña fue cambiada, puede iniciar sesión", "ru": "Пароль изменён, можно войти"},
	"auth.notice.recover":    {"en": "If the account exists, a recovery link is on its way", "es": "Si la cuenta existe, recibirá un enlace de recuperación", "ru": "Если аккаунт существует, ссылка для восстановления отправлена"},
	"auth.notice.not_confirmed": {"en": "The confirmation link is invalid or was already used", "es": "El enlace de confirmación no es válido o ya se usó", "ru": "Ссылка подтверждения недействительна или уже использована"},

	// Layout
	"nav.posts":           {"en": "Posts", "es": "Publicaciones", "ru": "Публикации"},
	"nav.sign_in":         {"en": "Sign in", "es": "Iniciar sesión", "ru": "Войти"},
	"nav.sign_up":         {"en": "Sign up", "es": "Registrarse", "ru": "Регистрация"},
	"nav.sign_out":        {"en": "Sign out", "es": "Cerrar sesión", "ru": "Выйти"},
	"nav.recover":         {"en": "Forgot password?", "es": "¿Olvidó su contraseña?", "ru": "Забыли пароль?"},
	"form.email":          {"en": "Email", "es": "Correo", "ru": "Email"},
	"form.password":       {"en": "Password", "es": "Contraseña", "ru": "Пароль"},
	"form.password_again": {"en": "Repeat password", "es": "Repita la contraseña", "ru": "Повторите пароль"},
	"form.terms":          {"en": "I accept the terms of use", "es": "Acepto los términos de uso", "ru": "Я принимаю условия использования"},
	"form.submit":         {"en": "Submit", "es": "Enviar", "ru": "Отправить"},
	"form.google":         {"en": "Continue with Google", "es": "Continuar con Google", "ru": "Продолжить с Google"},
	"page.sign_in":        {"en": "Sign in", "es": "Iniciar sesión", "ru": "Вход"},
	"page.sign_up":        {"en": "Create an account", "es": "Crear una cuenta", "ru": "Создать аккаунт"},
	"page.recover":        {"en": "Recover password", "es": "Recuperar contraseña", "ru": "Восстановление пароля"},
	"page.recovered":      {"en": "Choose a new password", "es": "Elija una nueva contraseña", "ru": "Новый пароль"},
	"page.not_found":      {"en": "Page not found", "es": "Página no encontrada", "ru": "Страница не найдена"},
	"posts.prev":          {"en": "Newer", "es": "Más recientes", "ru": "Новее"},
	"posts.next":          {"en": "Older", "es": "Más antiguas", "ru": "Старее"},
	"posts.empty":         {"en": "Nothing here yet", "es": "Aún no hay nada", "ru": "Пока пусто"},

	// Warp
	"nav.warp":          {"en": "Warp", "es": "Warp", "ru": "Warp"},
	"page.warp_sign_in": {"en": "Warp sign in", "es": "Acceso a Warp", "ru": "Вход в Warp"},
	"warp.posts":        {"en": "Posts", "es": "Publicaciones", "ru": "Публикации"},
	"warp.categories":   {"en": "Categories", "es": "Categorías", "ru": "Категории"},
	"warp.pages":        {"en": "Pages", "es": "Páginas", "ru": "Страницы"},
	"warp.files":        {"en": "Files", "es": "Archivos", "ru": "Файлы"},
	"warp.users":        {"en": "Users", "es": "Usuarios", "ru": "Пользователи"},
	"warp.admins":       {"en": "Admins", "es": "Administradores", "ru": "Администраторы"},
	"warp.new":          {"en": "New", "es": "Nuevo", "ru": "Создать"},
	"warp.edit":         {"en": "Edit", "es": "Editar", "ru": "Изменить"},
	"warp.delete":       {"en": "Delete", "es": "Eliminar", "ru": "Удалить"},

	"error.file.required":  {"en": "Choose a file", "es": "Elija un archivo", "ru": "Выберите файл"},
	"error.file.too_large": {"en": "The file is larger than 10 MB", "es": "El archivo supera los 10 MB", "ru": "Файл больше 10 МБ"},
	"error.file.type":      {"en": "Only images and PDF files are allowed", "es": "Solo se permiten imágenes y PDF", "ru": "Разрешены только изображения и PDF"},
	"error.slug.taken":     {"en": "This slug is already taken", "es": "Este slug ya está en uso", "ru": "Этот slug уже занят"},

	// Field labels
	"field.name":               {"en": "Name", "es": "Nombre", "ru": "Название"},
	"field.slug":               {"en": "Slug", "es": "Slug", "ru": "Slug"},
	"field.title":              {"en": "Title", "es": "Título", "ru": "Заголовок"},
	"field.keywords":           {"en": "Keywords", "es": "Palabras clave", "ru": "Ключевые слова"},
	"field.description":        {"en": "Description", "es": "Descripción", "ru": "Описание"},
	"field.heading":            {"en": "Heading", "es": "Encabezado", "ru": "Заголовок страницы"},
	"field.summary":            {"en": "Summary", "es": "Resumen", "ru": "Анонс"},
	"field.content":            {"en": "Content", "es": "Contenido", "ru": "Текст"},
	"field.picture":            {"en": "Picture URL", "es": "URL de la imagen", "ru": "URL изображения"},
	"field.category":           {"en": "Category", "es": "Categoría", "ru": "Категория"},
	"field.locale":             {"en": "Language", "es": "Idioma", "ru": "Язык"},
	"field.file":               {"en": "File", "es": "Archivo", "ru": "Файл"},
	"field.alt":                {"en": "Alt text", "es": "Texto alternativo", "ru": "Альтернативный текст"},
	"field.url":                {"en": "URL", "es": "URL", "ru": "URL"},
	"field.mime_type":          {"en": "Type", "es": "Tipo", "ru": "Тип"},
	"field.size":               {"en": "Size, bytes", "es": "Tamaño, bytes", "ru": "Размер, байт"},
	"field.email":              {"en": "Email", "es": "Correo", "ru": "Email"},
	"field.provider":           {"en": "Provider", "es": "Proveedor", "ru": "Провайдер"},
	"field.confirmed_at":       {"en": "Confirmed", "es": "Confirmado", "ru": "Подтверждён"},
	"field.sign_in_count":      {"en": "Sign ins", "es": "Inicios de sesión", "ru": "Входов"},
	"field.current_sign_in_at": {"en": "Current sign in", "es": "Sesión actual", "ru": "Текущий вход"},
	"field.current_sign_in_ip": {"en": "Current sign in IP", "es": "IP de la sesión actual", "ru": "IP текущего входа"},
	"field.last_sign_in_at":    {"en": "Last sign in", "es": "Última sesión", "ru": "Последний вход"},
	"field.last_sign_in_ip":    {"en": "Last sign in IP", "es": "IP de la última sesión", "ru": "IP последнего входа"},
	"field.created_at":         {"en": "Created", "es": "Creado", "ru": "Создано"},
	"field.updated_at":         {"en": "Updated", "es": "Actualizado", "ru": "Изменено"},
}
