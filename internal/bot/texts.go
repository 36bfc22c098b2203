package bot

const welcomeText = `🚀 Хочешь прокачать своего персонажа или аккаунт? Тогда тебе к нам! 🚀

Наш бот – это твой личный магазин игровых ценностей, где ты можешь приобрести:

💰 Игровую валюту: Быстро пополняй свой баланс в любимых играх и покупай всё, что захочешь!
🎮 Игровые аккаунты: Получи готовый аккаунт с нужным прогрессом и персонажами.
💎 Редкие предметы и скины: Сделай своего персонажа уникальным!
🔑 Ключи активации: Открывай новые игры и дополнения по лучшим ценам.

Почему стоит выбрать нас?
✅ Безопасность: Все сделки проходят через защищенные каналы.
✅ Скорость: Мгновенная доставка твоих покупок.
✅ Выгодные цены: Лучшие предложения на рынке игровых товаров.
✅ Широкий ассортимент: Найди всё, что нужно для комфортной игры.

Не упусти свой шанс стать лучшим в любимой игре! ✨`

// BroadcastText is the daily mass-message body.
const BroadcastText = `Привет! Ждем твоих покупок 🛒

Здесь ты найдешь:
• 🎮 Игровые аккаунты: От прокачанных персонажей до редких скинов – найди то, что тебе нужно!
• 💰 Игровая валюта: Ускорь свой прогресс и получи преимущество над соперниками.
• 🚀 Моментальная доставка: Получи свой заказ мгновенно после оплаты.
• 🛡️ Безопасность: Мы гарантируем надежность и безопасность всех сделок.

💎 Актуальные предложения:
• Standoff 2: голда от 0.7₽
• Brawl Stars: гемы и Brawl Pass
• Telegram: звезды и Premium
• Discord: Nitro от 70₽

🎁 Не упусти выгодные предложения!`

const catalogText = `🎮 Выберите категорию:

У нас есть товары для:
• Игр (GTA, Standoff, Brawl Stars и др.)
• Социальных сетей (Telegram, Discord)
• Уникальных NFT подарков`

const genericErrorText = "❌ Что-то пошло не так. Попробуйте позже."
